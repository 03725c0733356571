package version

var Version = "version is set by build process"
