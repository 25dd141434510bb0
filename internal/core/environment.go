package core

// Environment is the deployment environment the process runs in. It gates
// log verbosity and any other dev-only behavior.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment is production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment maps the raw ENVIRONMENT value to a known environment.
// Unknown or empty values mean development.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production, Staging, Testing:
		return Environment(v)
	default:
		return Development
	}
}
