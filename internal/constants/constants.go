package constants

const (
	Version        = `0.1.0`
	AppName        = `periodsearch`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.periodsearch/`
)
