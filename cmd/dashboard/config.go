package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"cattlecloud.net/go/dashboard/middles"
	"cattlecloud.net/go/dashboard/nav"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// account is a user known to the development authenticator.
type account struct {
	Password string   `mapstructure:"password"`
	Name     string   `mapstructure:"name"`
	Email    string   `mapstructure:"email"`
	Roles    []string `mapstructure:"roles"`
}

type config struct {
	Addr           string
	SecureCookies  bool
	CookieTTL      time.Duration
	LoginPath      string
	LandingPath    string
	RememberTarget bool
	NavFile        string
	InheritRoles   bool
	PruneEmpty     bool
	Debug          bool
	Accounts       map[string]account
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a config file (yaml, json, toml)")
	flags.String("addr", "127.0.0.1:8080", "address to listen on")
	flags.Bool("secure-cookies", false, "mark session cookies Secure (requires https)")
	flags.Duration("cookie-ttl", 12*time.Hour, "lifetime of session cookies")
	flags.String("login-path", middles.DefaultLoginPath, "path of the login page")
	flags.String("landing-path", middles.DefaultLandingPath, "where signed in users land")
	flags.Bool("remember-target", true, "return users to the page they asked for after login")
	flags.String("nav-file", "", "JSON navigation menu; the built in menu if empty")
	flags.Bool("inherit-roles", false, "menu entries without roles take their parent's roles")
	flags.Bool("prune-empty", true, "hide menu branches left without entries")
	flags.Bool("debug", false, "enable debug logging")
}

// loadConfig resolves configuration from flags, DASHBOARD_* environment
// variables, and an optional config file, in that order of precedence.
func loadConfig(flags *pflag.FlagSet) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix("dashboard")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("config: unable to bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: unable to read %s: %w", file, err)
		}
	}

	// viper lowercases map keys, so usernames are lowercase from here on
	raw := make(map[string]account)
	if err := v.UnmarshalKey("accounts", &raw); err != nil {
		return nil, fmt.Errorf("config: unable to read accounts: %w", err)
	}
	accounts := make(map[string]account, len(raw))
	for name, acct := range raw {
		accounts[strings.ToLower(name)] = acct
	}

	return &config{
		Addr:           v.GetString("addr"),
		SecureCookies:  v.GetBool("secure-cookies"),
		CookieTTL:      v.GetDuration("cookie-ttl"),
		LoginPath:      v.GetString("login-path"),
		LandingPath:    v.GetString("landing-path"),
		RememberTarget: v.GetBool("remember-target"),
		NavFile:        v.GetString("nav-file"),
		InheritRoles:   v.GetBool("inherit-roles"),
		PruneEmpty:     v.GetBool("prune-empty"),
		Debug:          v.GetBool("debug"),
		Accounts:       accounts,
	}, nil
}

// menu returns the navigation tree named by the config.
func (c *config) menu() (nav.Tree, error) {
	if c.NavFile == "" {
		return nav.Default(), nil
	}

	f, err := os.Open(c.NavFile)
	if err != nil {
		return nil, fmt.Errorf("config: unable to open menu: %w", err)
	}
	defer func() { _ = f.Close() }()

	return nav.Load(f)
}

func (c *config) menuOptions() []nav.OptionFunc {
	return []nav.OptionFunc{
		nav.SetInherit(c.InheritRoles),
		nav.SetPrune(c.PruneEmpty),
	}
}
