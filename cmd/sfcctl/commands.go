package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-shdlc/serial"
	"github.com/arloliu/go-shdlc/sfc6xxx"
)

const commandTimeout = 10 * time.Second

// withDevice opens the configured device and runs fn against it with a
// bounded context.
func withDevice(fn func(ctx context.Context, dev *sfc6xxx.Device) error) error {
	dev, cleanup, err := openDevice()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	return fn(ctx, dev)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available serial ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.ListPorts()
		if err != nil {
			return err
		}
		for _, p := range ports {
			fmt.Println(p)
		}

		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show product and version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(func(ctx context.Context, dev *sfc6xxx.Device) error {
			name, err := dev.ProductName(ctx)
			if err != nil {
				return err
			}
			article, err := dev.ArticleCode(ctx)
			if err != nil {
				return err
			}
			serialNo, err := dev.SerialNumber(ctx)
			if err != nil {
				return err
			}
			version, err := dev.Version(ctx)
			if err != nil {
				return err
			}
			unit, err := dev.CurrentGasUnit(ctx)
			if err != nil {
				return err
			}
			fullScale, err := dev.CurrentFullScale(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("product:    %s\n", name)
			fmt.Printf("article:    %s\n", article)
			fmt.Printf("serial:     %s\n", serialNo)
			fmt.Printf("version:    %s\n", version)
			fmt.Printf("full scale: %g %s\n", fullScale, unit)

			return nil
		})
	},
}

var readAverage uint8

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the measured flow",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(func(ctx context.Context, dev *sfc6xxx.Device) error {
			var (
				flow float32
				err  error
			)
			if readAverage > 1 {
				flow, err = dev.AverageMeasuredValue(ctx, readAverage)
			} else {
				flow, err = dev.MeasuredValue(ctx)
			}
			if err != nil {
				return err
			}

			unit, err := dev.CurrentGasUnit(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%g %s\n", flow, unit)

			return nil
		})
	},
}

var setpointCmd = &cobra.Command{
	Use:   "setpoint [value]",
	Short: "Get or set the flow setpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(func(ctx context.Context, dev *sfc6xxx.Device) error {
			if len(args) == 0 {
				setpoint, err := dev.Setpoint(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("%g\n", setpoint)

				return nil
			}

			value, err := strconv.ParseFloat(args[0], 32)
			if err != nil {
				return fmt.Errorf("invalid setpoint %q: %w", args[0], err)
			}

			return dev.SetSetpoint(ctx, float32(value))
		})
	},
}

var baudrateCmd = &cobra.Command{
	Use:   "baudrate [rate]",
	Short: "Get or set the device baud rate",
	Long: `Get or set the baud rate the device uses on its serial interface.
Setting takes effect immediately; reconnect with the new rate afterwards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(func(ctx context.Context, dev *sfc6xxx.Device) error {
			if len(args) == 0 {
				baud, err := dev.Baudrate(ctx)
				if err != nil {
					return err
				}
				fmt.Println(baud)

				return nil
			}

			rate, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid baud rate %q: %w", args[0], err)
			}

			return dev.SetBaudrate(ctx, uint32(rate))
		})
	},
}

var addressCmd = &cobra.Command{
	Use:   "address [new-address]",
	Short: "Get or set the device slave address",
	Long: `Get or set the SHDLC slave address. Setting is persistent; subsequent
commands must use --address with the new value.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(func(ctx context.Context, dev *sfc6xxx.Device) error {
			if len(args) == 0 {
				addr, err := dev.SlaveAddress(ctx)
				if err != nil {
					return err
				}
				fmt.Println(addr)

				return nil
			}

			addr, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", args[0], err)
			}

			return dev.SetSlaveAddress(ctx, byte(addr))
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(func(ctx context.Context, dev *sfc6xxx.Device) error {
			return dev.Reset(ctx)
		})
	},
}

func init() {
	readCmd.Flags().Uint8VarP(&readAverage, "average", "n", 1, "average over N measurements (max 100)")

	rootCmd.AddCommand(portsCmd, infoCmd, readCmd, setpointCmd, baudrateCmd, addressCmd, resetCmd)
}
