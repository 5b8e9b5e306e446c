package main

import (
	"github.com/spf13/cobra"

	"github.com/arloliu/go-shdlc/logger"
	"github.com/arloliu/go-shdlc/serial"
	"github.com/arloliu/go-shdlc/sfc6xxx"
	"github.com/arloliu/go-shdlc/shdlc"
)

var (
	flagPort    string
	flagBaud    int
	flagAddress int
	flagConfig  string
	flagVerbose bool

	cfg config
)

var rootCmd = &cobra.Command{
	Use:           "sfcctl",
	Short:         "Control Sensirion SFC6xxx mass flow controllers over SHDLC",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPort, "port", "p", "", "serial port, e.g. /dev/ttyUSB0")
	rootCmd.PersistentFlags().IntVarP(&flagBaud, "baud", "b", serial.DefaultBaudRate, "baud rate")
	rootCmd.PersistentFlags().IntVarP(&flagAddress, "address", "a", 0, "SHDLC slave address")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// initConfig merges the optional config file with command line flags.
// Flags that were set explicitly win over the file.
func initConfig(cmd *cobra.Command) error {
	cfg = defaultConfig()

	if flagConfig != "" {
		loaded, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("port") || cfg.Port == "" {
		cfg.Port = flagPort
	}
	if flags.Changed("baud") {
		cfg.Baud = flagBaud
	}
	if flags.Changed("address") {
		cfg.Address = flagAddress
	}
	if flags.Changed("verbose") {
		cfg.Verbose = flagVerbose
	}

	return nil
}

// openDevice connects to the configured serial port and returns a device
// handle plus a cleanup function closing the transport.
func openDevice() (*sfc6xxx.Device, func(), error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	level := logger.InfoLevel
	if cfg.Verbose {
		level = logger.DebugLevel
	}

	port, err := serial.Open(cfg.Port, cfg.Baud)
	if err != nil {
		return nil, nil, err
	}

	transportCfg, err := shdlc.NewTransportConfig(
		shdlc.WithReadTimeout(cfg.readTimeout()),
		shdlc.WithRetryLimit(cfg.RetryLimit),
		shdlc.WithLogger(logger.NewSlog(level, false)),
	)
	if err != nil {
		_ = port.Close()
		return nil, nil, err
	}

	transport := shdlc.NewTransport(port, transportCfg)

	dev := sfc6xxx.NewDevice(transport, byte(cfg.Address))

	return dev, func() { _ = transport.Close() }, nil
}
