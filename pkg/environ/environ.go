// Package environ names and fills the environment variables that hand a
// signing identity (profile UUID, team id, profile name, ...) to later
// build steps.
package environ

import (
	"os"
	"strings"

	"github.com/apex/log"
)

const (
	prefix = "sigh"
	// DefaultPlatform is left out of variable names for backwards compatibility.
	DefaultPlatform = "ios"
)

// Environment is a key/value store of environment variables.
type Environment interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type osEnvironment struct{}

func (osEnvironment) Get(key string) (string, bool) { return os.LookupEnv(key) }
func (osEnvironment) Set(key, value string) error   { return os.Setenv(key, value) }

// OS is the environment of the current process.
var OS Environment = osEnvironment{}

// Map is an in-memory Environment.
type Map map[string]string

func (m Map) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Map) Set(key, value string) error {
	m[key] = value
	return nil
}

// Identity identifies a signing identity by app identifier, profile type
// (appstore, adhoc, development, enterprise, ...) and platform.
type Identity struct {
	AppIdentifier string
	Type          string
	Platform      string
}

func (i Identity) base() []string {
	parts := []string{prefix, i.AppIdentifier, i.Type}
	if i.Platform != "" && i.Platform != DefaultPlatform {
		parts = append(parts, i.Platform)
	}
	return parts
}

func (i Identity) name(suffix ...string) string {
	return strings.Join(append(i.base(), suffix...), "_")
}

// VariableName holds the provisioning profile UUID.
func (i Identity) VariableName() string { return i.name() }

// VariableNameTeamID holds the developer team id.
func (i Identity) VariableNameTeamID() string { return i.name("team-id") }

// VariableNameProfileName holds the provisioning profile name.
func (i Identity) VariableNameProfileName() string { return i.name("profile-name") }

// VariableNameProfilePath holds the installed provisioning profile path.
func (i Identity) VariableNameProfilePath() string { return i.name("profile-path") }

// VariableNameCertificateName holds the signing certificate common name.
func (i Identity) VariableNameCertificateName() string { return i.name("certificate-name") }

// VariableName returns "sigh_<appIdentifier>_<typ>".
func VariableName(appIdentifier, typ string) string {
	return Identity{AppIdentifier: appIdentifier, Type: typ}.VariableName()
}

// VariableNameTeamID returns "sigh_<appIdentifier>_<typ>_team-id".
func VariableNameTeamID(appIdentifier, typ string) string {
	return Identity{AppIdentifier: appIdentifier, Type: typ}.VariableNameTeamID()
}

// VariableNameProfileName returns "sigh_<appIdentifier>_<typ>_profile-name".
func VariableNameProfileName(appIdentifier, typ string) string {
	return Identity{AppIdentifier: appIdentifier, Type: typ}.VariableNameProfileName()
}

// FillEnvironment sets key to value in env, overwriting any previous value,
// and returns value.
func FillEnvironment(env Environment, key, value string) (string, error) {
	if err := env.Set(key, value); err != nil {
		return value, err
	}
	log.Debugf("Set environment variable %s=%s", key, value)
	return value, nil
}

// Fill is FillEnvironment on the process environment.
func Fill(key, value string) string {
	if _, err := FillEnvironment(OS, key, value); err != nil {
		log.WithError(err).Warnf("failed to set environment variable %s", key)
	}
	return value
}
