// padbridge - UDP text-command bridge for phone-as-gamepad input.
// Turns short text commands from remote clients into pointer motion,
// keystrokes and virtual controller events.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"padbridge/internal/actuator"
	"padbridge/internal/api"
	"padbridge/internal/autostart"
	"padbridge/internal/config"
	"padbridge/internal/logging"
	"padbridge/internal/motion"
	"padbridge/internal/network"
	"padbridge/internal/protocol"
	"padbridge/internal/server"
	"padbridge/internal/session"
)

var (
	version    = "0.3.0"
	configPath = flag.String("config", "", "Path to config file (default: user config dir)")
	listenAddr = flag.String("addr", "", "UDP listen address, overrides config")
	policy     = flag.String("policy", "", "Smoothing policy: stability, simple or momentum")
	dryRun     = flag.Bool("dry-run", false, "Log input events without injecting them")
	autoStart  = flag.String("autostart", "", "Manage login autostart: enable, disable or status")
	showVer    = flag.Bool("version", false, "Show version")
)

func handleAutostart(mode string) {
	switch mode {
	case "enable":
		if err := autostart.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to enable autostart: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Autostart enabled")
	case "disable":
		if err := autostart.Disable(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to disable autostart: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Autostart disabled")
	case "status":
		if autostart.IsEnabled() {
			fmt.Println("Autostart is enabled")
		} else {
			fmt.Println("Autostart is disabled")
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown autostart mode %q\n", mode)
		os.Exit(1)
	}
}

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("padbridge version %s\n", version)
		return
	}

	if *autoStart != "" {
		handleAutostart(*autoStart)
		return
	}

	cfgMgr, err := config.NewManager(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	if err := cfgMgr.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}

	cfg := cfgMgr.Get()
	if *listenAddr != "" {
		cfg.Listen.Addr = *listenAddr
	}
	if *policy != "" {
		cfg.Smoothing.Policy = *policy
	}
	if *dryRun {
		cfg.Input.DryRun = true
	}
	cfgMgr.Set(cfg)

	log := logging.Init(cfg.Log)
	defer log.Sync()

	log.Infof("padbridge %s starting", version)

	// Phone clients need the machine's address; print the candidates.
	if ips, err := network.GetLocalIPs(); err == nil {
		for _, ip := range ips {
			log.Infof("Reachable at %s (UDP %s)", ip, cfg.Listen.Addr)
		}
	}

	// Actuator: real uinput devices, or a no-op sink for dry runs and
	// unsupported platforms.
	var act actuator.Actuator
	if cfg.Input.DryRun {
		log.Infof("Dry run: input events will be logged, not injected")
		act = actuator.Nop{}
	} else {
		ui, err := actuator.New([]string{protocol.Player1, protocol.Player2})
		if err != nil {
			log.Warnf("Input injection unavailable (%v), continuing without it", err)
			act = actuator.Nop{}
		} else {
			defer ui.Close()
			act = ui
		}
	}

	store := session.NewStore(log)
	sc := cfg.Smoothing
	engine := motion.NewEngine(motion.PresetWith(sc.Policy, sc.Sensitivity, sc.MaxSpeed, sc.DeltaGain))
	log.Infof("Smoothing policy: %s", engine.Preset().Name)

	metrics := &server.Metrics{}
	sched := server.NewScheduler(act, log, metrics,
		time.Duration(cfg.Input.AutoReleaseMs)*time.Millisecond)
	disp := server.NewDispatcher(store, engine, sched, act, metrics, log, cfg.Input)

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(cfgMgr, store, engine, metrics, log)
		if err := apiServer.Start(cfg.API.Port); err != nil {
			log.Warnf("API server failed to start: %v", err)
			apiServer = nil
		} else {
			disp.OnEvent = apiServer.Hub().Publish
		}
	}

	srv := server.NewServer(cfg, store, disp, metrics, log)
	if err := srv.Start(); err != nil {
		log.Errorf("Failed to start UDP server: %v", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Infof("Shutting down")
	srv.Stop()
	sched.Stop()
	if apiServer != nil {
		apiServer.Stop()
	}
}
