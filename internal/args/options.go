package args

type CallbackOption func(string) error

var General struct {
	Verbose               []bool         `json:"verbose"          short:"v" long:"verbose"             env:"VERBOSITY"            description:"Show verbose debug information"`
	ConfigurationFile     CallbackOption `json:"-"                short:"c" long:"config"              env:"CONFIG"               description:"Configuration file (yaml-formatted)" no-ini:"true"`
	ConfigurationFilePath string         `json:"-"`
	LogFile               *string        `json:"logFile"          short:"l" long:"log-file"            env:"LOG_FILE"             description:"Log file (file will be appended). If not set, defaults to stderr." default:"-"`
	LogFormat             string         `json:"logFormat"        short:"f" long:"log-format"          env:"LOG_FORMAT"           description:"Log file format (json or text)." choice:"text" choice:"json" default:"text"`
	LogColor              string         `json:"logColor"         short:"C" long:"log-color"           env:"LOG_COLOR"            description:"Should the log output be colored? true, false or auto" choice:"yes" choice:"no" choice:"true" choice:"false" choice:"auto" default:"auto"`
	LogFullTimestamp      bool           `json:"logFullTimestamp"           long:"log-full-timestamp"  env:"LOG_FULL_TIMESTAMP"   description:"Display full timestamp in logs."`
	LogReportCaller       bool           `json:"logReportCaller"            long:"log-report-caller"   env:"LOG_REPORT_CALLER"    description:"If you wish to add the calling method as a field."`
}

// ColorEnabled decides if output should be colored, given the --log-color setting and whether the
// output is a terminal
func ColorEnabled(isTerminal bool) bool {
	switch General.LogColor {
	case "yes", "true", "1":
		return true
	case "no", "false", "0":
		return false
	default:
		return isTerminal
	}
}
