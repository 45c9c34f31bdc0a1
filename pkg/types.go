package pkg

const (
	Name          = "derive_gen"
	VersionString = "0.2.0"
)
