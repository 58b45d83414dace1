package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/gruhabuddy/gruha/pkg/config"
)

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "viper-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	setenv := func(key, value string) {
		orig, had := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(func() {
			if had {
				os.Setenv(key, orig)
			} else {
				os.Unsetenv(key)
			}
		})
	}

	unsetenv := func(key string) {
		orig, had := os.LookupEnv(key)
		Expect(os.Unsetenv(key)).To(Succeed())
		DeferCleanup(func() {
			if had {
				os.Setenv(key, orig)
			}
		})
	}

	It("returns viper with defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		defaults := config.NewDefaultConfig()
		Expect(v.GetString("dispatcher.listen")).To(Equal(defaults.Dispatcher.Listen))
		Expect(v.GetString("gateway.endpoint")).To(Equal(defaults.Gateway.Endpoint))
		Expect(v.GetFloat64("gateway.temperature")).To(Equal(defaults.Gateway.Temperature))
		Expect(v.GetString("client.dispatcher_target")).To(Equal(defaults.Client.DispatcherTarget))
		Expect(config.Brokers(v)).To(BeEmpty())
	})

	It("reads config file values over defaults", func() {
		data := `[gateway]
provider = "ollama"

[events]
brokers = ["kafka:9092"]
`
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("gateway.provider")).To(Equal("ollama"))
		Expect(config.Brokers(v)).To(Equal([]string{"kafka:9092"}))
	})

	It("env vars take precedence over config file values", func() {
		data := `[gateway]
model = "from-file"
`
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())
		setenv("GRUHA_GATEWAY_MODEL", "from-env")
		setenv("GRUHA_EVENTS_BROKERS", "k1:9092,k2:9092")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("gateway.model")).To(Equal("from-env"))
		Expect(config.Brokers(v)).To(Equal([]string{"k1:9092", "k2:9092"}))
	})

	Describe("gateway credential", func() {
		It("prefers GRUHA_GATEWAY_API_KEY", func() {
			setenv(config.EnvGatewayAPIKey, "gruha-key")
			setenv(config.EnvLovableAPIKey, "lovable-key")

			v, err := config.InitViper(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.GetString(config.KeyGatewayAPIKey)).To(Equal("gruha-key"))
		})

		It("falls back to LOVABLE_API_KEY", func() {
			unsetenv(config.EnvGatewayAPIKey)
			setenv(config.EnvLovableAPIKey, "lovable-key")

			v, err := config.InitViper(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.GetString(config.KeyGatewayAPIKey)).To(Equal("lovable-key"))
		})
	})

	It("reports an invalid timeout", func() {
		setenv("GRUHA_GATEWAY_TIMEOUT", "eventually")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		_, err = config.GatewayTimeout(v)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("BindFlags", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "bindflag-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("binds cobra flags to viper keys via registry", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var listen string
		config.AddStringFlag(cmd, config.ServeFlags, config.FlagDispatcherListenStandalone, &listen)

		Expect(cmd.Flags().Set("listen", ":7777")).To(Succeed())
		config.BindRegisteredFlags(v, cmd, config.ServeFlags, []string{config.FlagDispatcherListenStandalone})

		Expect(v.GetString("dispatcher.listen")).To(Equal(":7777"))
	})

	It("falls through to config when flag not set", func() {
		data := `[api]
listen = ":5555"
`
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var listen string
		config.AddStringFlag(cmd, config.ServeFlags, config.FlagAPIListenStandalone, &listen)
		config.BindRegisteredFlags(v, cmd, config.ServeFlags, []string{config.FlagAPIListenStandalone})

		Expect(v.GetString("api.listen")).To(Equal(":5555"))
	})

	It("skips bindings for nonexistent registry keys", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		config.BindRegisteredFlags(v, cmd, config.FlagSet{}, []string{"nonexistent"})

		Expect(v.GetString("dispatcher.listen")).To(Equal(config.NewDefaultConfig().Dispatcher.Listen))
	})

	It("AddFloat64Flag uses the configured default", func() {
		cmd := &cobra.Command{Use: "test"}
		var temperature float64
		config.AddFloat64Flag(cmd, config.ServeFlags, config.FlagTemperature, &temperature)

		f := cmd.Flags().Lookup("temperature")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal("0.3"))
	})

	It("AddStringFlag pulls name, shorthand, and description from FlagSet", func() {
		cmd := &cobra.Command{Use: "test"}
		var target string
		config.AddStringFlag(cmd, config.ClientFlags, config.FlagDispatcherTarget, &target)

		f := cmd.Flags().Lookup("dispatcher-target")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("t"))
		Expect(f.Usage).To(Equal("Dispatcher URL"))
		Expect(f.DefValue).To(Equal("http://localhost:8080"))
	})
})
