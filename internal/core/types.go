package core

const (
	BotName          = "RouterBot"
	BotRepositoryURL = "https://github.com/sandevgo/routerbot"
	BotVersion       = "0.1.0"
)

const (
	DriverRestconf = "restconf"
	DriverNetconf  = "netconf"
)
