package common

// CayVersion is the current compiler version as a string.
const CayVersion string = "0.3.0"

// CayProjectFileName is the name of Cay project files.
const CayProjectFileName string = "cay.toml"

// CayFileExt is the file extension for a Cay source file.
const CayFileExt string = ".cay"

// EntryMethodName is the name of the method used as the program entry point.
const EntryMethodName string = "main"

// EntryAnnotation is the annotation selecting the entry class when several
// classes declare an entry method.
const EntryAnnotation string = "main"
