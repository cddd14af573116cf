package installer

// Answers are the values collected by the wizard, tagged with the
// environment variables they are saved under.
type Answers struct {
	StudentID          string `env:"STUDENT_ID"`
	UseRestconf        bool   `env:"USE_RESTCONF" envDefault:"true"`
	RouterIP           string `env:"ROUTER_IP"`
	RouterUsername     string `env:"ROUTER_USERNAME"`
	RouterPassword     string `env:"ROUTER_PASSWORD"`
	InsecureSkipVerify bool   `env:"ROUTER_INSECURE_SKIP_VERIFY"`
	EnableTelegram     bool   `env:"ENABLE_TELEGRAM" envDefault:"true"`
	TelegramToken      string `env:"TELEGRAM_TOKEN"`
	TelegramChatID     string `env:"TELEGRAM_CHAT_ID"`
	AnsibleStudentID   string `env:"ANSIBLE_STUDENT_ID"`
}

type InstallState struct {
	Answers Answers
	EnvPath string
}

func NewInstallState(envPath string) *InstallState {
	return &InstallState{
		Answers: Answers{UseRestconf: true, EnableTelegram: true},
		EnvPath: envPath,
	}
}
