package main

import (
	"fmt"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/voltmesh/solarbot/pkg/app"
)

// program adapts app.Run to the kardianos service interface.
type program struct {
	configPath string
	errCh      chan error
}

func (p *program) Start(service.Service) error {
	p.errCh = make(chan error, 1)
	go func() {
		p.errCh <- app.Run(app.RunParams{
			ConfigPath: p.configPath,
			Version:    version,
			Commit:     commit,
			Date:       date,
		})
	}()
	return nil
}

func (p *program) Stop(service.Service) error {
	// app.Run exits on SIGTERM, which the service manager sends on stop.
	return nil
}

func newService(configPath string) (service.Service, error) {
	var args []string
	args = append(args, "service", "run")
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	return service.New(&program{configPath: configPath}, &service.Config{
		Name:        "solarbot",
		DisplayName: "DEG Energy Agent",
		Description: "Telegram agent for solar onboarding and P2P energy trading",
		Arguments:   args,
	})
}

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Run or manage solarbot as a system service",
	}

	var configPath string
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run under the service manager (used by install)",
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := newService(configPath)
			if err != nil {
				return err
			}
			return svc.Run()
		},
	})

	for _, action := range []string{"install", "uninstall", "start", "stop", "restart"} {
		cmd.AddCommand(controlCmd(action, &configPath))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the service status",
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := newService(configPath)
			if err != nil {
				return err
			}
			status, err := svc.Status()
			if err != nil {
				return err
			}
			switch status {
			case service.StatusRunning:
				fmt.Println("running")
			case service.StatusStopped:
				fmt.Println("stopped")
			default:
				fmt.Println("unknown")
			}
			return nil
		},
	})

	return cmd
}

func controlCmd(action string, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: fmt.Sprintf("%s the system service", action),
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := newService(*configPath)
			if err != nil {
				return err
			}
			return service.Control(svc, action)
		},
	}
}
