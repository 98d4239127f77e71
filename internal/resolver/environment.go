package resolver

// EnvironmentConfig holds the per-tier deployment flags of a resolver.
// A nil field means the flag was not declared, which is distinct from an
// explicit false.
type EnvironmentConfig struct {
	Local *bool
	Dev   *bool
	Stage *bool
	Prod  *bool
}

// Set records an explicit value for a recognized environment name and
// reports whether the name was recognized.
func (c *EnvironmentConfig) Set(env string, v bool) bool {
	switch env {
	case "local":
		c.Local = &v
	case "dev":
		c.Dev = &v
	case "stage":
		c.Stage = &v
	case "prod":
		c.Prod = &v
	default:
		return false
	}
	return true
}

// Len returns the number of declared flags.
func (c *EnvironmentConfig) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, f := range []*bool{c.Local, c.Dev, c.Stage, c.Prod} {
		if f != nil {
			n++
		}
	}
	return n
}

func isTrue(b *bool) bool { return b != nil && *b }

// DeriveStatus maps environment flags to a deployment status.
// adminEnvironments, when present, fully shadows environments. An absent or
// empty config counts as deployed to prod; otherwise the highest enabled
// tier wins (prod > stage > dev > local), and a config with flags but none
// enabled is in progress.
func DeriveStatus(environments, adminEnvironments *EnvironmentConfig) Status {
	envs := environments
	if adminEnvironments != nil {
		envs = adminEnvironments
	}
	switch {
	case envs.Len() == 0:
		return StatusDeployedProd
	case isTrue(envs.Prod):
		return StatusDeployedProd
	case isTrue(envs.Stage):
		return StatusDeployedStage
	case isTrue(envs.Dev):
		return StatusDeployedDev
	case isTrue(envs.Local):
		return StatusCodeComplete
	default:
		return StatusInProgress
	}
}
