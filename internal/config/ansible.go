package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/routerbot/pkg/log"
)

type AnsibleConfig struct {
	Dir        string        `env:"ANSIBLE_DIR" envDefault:"ansible"`
	Binary     string        `env:"ANSIBLE_PLAYBOOK_BIN" envDefault:"ansible-playbook"`
	Playbook   string        `env:"ANSIBLE_PLAYBOOK" envDefault:"playbook_showrun.yml"`
	StudentID  string        `env:"ANSIBLE_STUDENT_ID" envDefault:"unknown"`
	RouterName string        `env:"ANSIBLE_ROUTER_NAME" envDefault:"CSR1KV"`
	Timeout    time.Duration `env:"ANSIBLE_TIMEOUT" envDefault:"3m"`
}

func NewAnsibleConfig(ctx context.Context) *AnsibleConfig {
	c := &AnsibleConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Ansible config")
	}
	return c
}

// GetArtifactPath is where the playbook writes the running configuration.
func (c AnsibleConfig) GetArtifactPath() string {
	return filepath.Join(c.Dir, fmt.Sprintf("show_run_%s_%s.txt", c.StudentID, c.RouterName))
}
