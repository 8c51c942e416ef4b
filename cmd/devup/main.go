// devup starts the inference API and the web app for local development.
// It is a plain two-process launcher: start the API, wait a fixed two
// seconds, start the web app. No health checks, no restarts; if either
// process dies you restart devup yourself.
package main

import (
	"flag"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/skinlens/skinlens/config"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Devup.APICommand) == 0 || len(cfg.Devup.WebCommand) == 0 {
		log.Fatalf("devup commands not configured")
	}

	api := startProcess(cfg.Devup.APICommand)
	log.Printf("started api process (pid %d)", api.Process.Pid)

	//give the model a moment to load before the web app comes up
	time.Sleep(2 * time.Second)

	web := startProcess(cfg.Devup.WebCommand)
	log.Printf("started web process (pid %d)", web.Process.Pid)

	if err := api.Wait(); err != nil {
		log.Printf("api process exited: %v", err)
	}
	if err := web.Wait(); err != nil {
		log.Printf("web process exited: %v", err)
	}
}

func startProcess(command []string) *exec.Cmd {
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		log.Fatalf("failed to start %s: %v", command[0], err)
	}
	return cmd
}
