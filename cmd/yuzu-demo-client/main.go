// Command yuzu-demo-client connects to yuzu-demo-server and prints every
// change to /counter and /log as it arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hypcn/yuzu-go"
	"github.com/hypcn/yuzu-go/internal/protocol"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/api/yuzu", "yuzu server WebSocket URL")
	token := flag.String("token", "", "connection token, if the server requires one")
	flag.Parse()

	client, err := yuzu.NewClient(yuzu.ClientOptions{
		URL:   *url,
		Token: *token,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	client.Root().Child("counter").Subscribe(func(path protocol.Path, value any, ok bool) {
		if ok {
			fmt.Println("counter:", value)
		}
	})
	client.Root().Child("log").Subscribe(func(path protocol.Path, value any, ok bool) {
		if ok {
			fmt.Println("log changed at", path.String())
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
