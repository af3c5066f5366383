package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)

	// Secrets are filled in by Initialize.
	assert.NotNil(t, cfg.Validate())
	cfg.User.SudoPasswordHash = "x"
	cfg.SSH.PasswordHash = "x"
	assert.Nil(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Configuration {
		cfg := defaultConfig()
		cfg.User.SudoPasswordHash = "x"
		cfg.SSH.PasswordHash = "x"
		return cfg
	}

	cases := map[string]func(*Configuration){
		"bad-color":      func(c *Configuration) { c.Shell.Color = "rainbow" },
		"bad-port":       func(c *Configuration) { c.SSH.Port = 70000 },
		"no-identity":    func(c *Configuration) { c.User.ElevatedIdentity = "" },
		"bad-update-url": func(c *Configuration) { c.Packages.UpdateURL = "not a url" },
		"dup-packages": func(c *Configuration) {
			c.Packages.Index = []Package{
				{Name: "a", Version: "1", URL: "http://example.com/a"},
				{Name: "a", Version: "2", URL: "http://example.com/a2"},
			}
		},
		"package-no-url": func(c *Configuration) {
			c.Packages.Index = []Package{{Name: "a", Version: "1"}}
		},
	}

	for tn, mutate := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.NotNil(t, cfg.Validate())
		})
	}
}

func TestShouldColor(t *testing.T) {
	assert.True(t, Shell{Color: "always"}.ShouldColor(false))
	assert.False(t, Shell{Color: "never"}.ShouldColor(true))
	assert.True(t, Shell{Color: "auto"}.ShouldColor(true))
	assert.False(t, Shell{Color: "auto"}.ShouldColor(false))
}

func TestFindPackage(t *testing.T) {
	cfg := defaultConfig()
	cfg.Packages.Index = []Package{{Name: "hello", Version: "1.0", URL: "http://example.com/hello"}}

	pkg, ok := cfg.FindPackage("hello")
	assert.True(t, ok)
	assert.Equal(t, "1.0", pkg.Version)

	_, ok = cfg.FindPackage("missing")
	assert.False(t, ok)
}

func TestLoadFs_missing(t *testing.T) {
	_, err := LoadFs(afero.NewMemMapFs())
	assert.NotNil(t, err)
}
