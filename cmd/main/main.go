package main

import (
	"flag"
	"fmt"
	"log"
	"net/netip"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alipro/shadowsocks-vertx/core"
	"github.com/alipro/shadowsocks-vertx/utils"
)

var config struct {
	Verbose bool
}

func main() {

	var flags struct {
		Server   string
		Cipher   string
		Password string
		Timeout  time.Duration
	}

	flag.BoolVar(&config.Verbose, "verbose", false, "verbose mode")
	flag.StringVar(&flags.Cipher, "cipher", "aes-256-cfb", "available ciphers: "+strings.Join(utils.ListCipher(), " "))
	flag.StringVar(&flags.Password, "password", "", "password")
	flag.StringVar(&flags.Server, "s", "", "server listen address or url")
	flag.DurationVar(&flags.Timeout, "timeout", core.DefaultConnectTimeout, "destination connect timeout")
	flag.Parse()

	core.SetLogger(logf)
	if config.Verbose {
		core.SetLogLevel(core.LOG_DEBUG)
	}

	if flags.Server == "" {
		flag.Usage()
		return
	}

	addr := flags.Server
	cipher := flags.Cipher
	password := flags.Password
	if password == "" {
		password = os.Getenv("SS_PASSWORD")
	}
	var err error

	if strings.HasPrefix(addr, "ss://") {
		addr, cipher, password, err = parseURL(addr)
		if err != nil {
			log.Fatal(err)
		}
	}

	serverAddr, err := netip.ParseAddrPort(addr)
	if err != nil {
		log.Fatal(err)
	}

	serverConfig, err := utils.NewServerConfig(cipher, password, serverAddr, flags.Timeout)
	if err != nil {
		log.Fatal(err)
	}

	server := core.NewTCPServer(serverConfig)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal(err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	server.Close()
}

func parseURL(s string) (addr, cipher, password string, err error) {
	u, err := url.Parse(s)
	if err != nil {
		return
	}

	if len(u.Hostname()) == 0 {
		u.Host = fmt.Sprintf("0.0.0.0:%s", u.Port())
	}
	addr = u.Host
	if u.User != nil {
		cipher = u.User.Username()
		password, _ = u.User.Password()
	}
	return
}

func logf(format string, v ...any) {
	log.Printf(format, v...)
}
