package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/app"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/logging"
	"github.com/example/storefront/pkg/render"
	"github.com/example/storefront/pkg/router"
	"github.com/example/storefront/pkg/session"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront client",
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("session_file", cfg.Session.File))

	sess := session.NewStore(cfg.Session.File, logger.Named("session"))
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sess, logger.Named("api"))
	rt := router.New(logger.Named("router"))
	terminal := render.NewTerminal(os.Stdout)

	application := app.New(client, sess, rt, terminal, logger.Named("app"),
		app.WithNotifier(func(n app.Notice) {
			if n.Level == app.LevelError {
				fmt.Printf("  ! %s\n", n.Message)
				return
			}
			fmt.Printf("  * %s\n", n.Message)
		}),
		app.WithBadge(func(count int) {
			fmt.Printf("  Cart (%d)\n", count)
		}),
		app.WithNavState(printNav),
	)

	ctx := context.Background()
	if err := application.Start(ctx); err != nil {
		logger.Fatal("Failed to start", zap.Error(err))
	}

	runShell(ctx, application, rt)
	logger.Info("Storefront client stopped")
}

func printNav(nav session.NavState) {
	links := []string{"products", "cart"}
	if nav.ShowOrders {
		links = append(links, "orders")
	}
	if nav.ShowLogin {
		links = append(links, "login")
	}
	if nav.ShowRegister {
		links = append(links, "register")
	}
	if nav.ShowLogout {
		links = append(links, "logout")
	}
	fmt.Printf("  nav: [%s]\n", strings.Join(links, "] ["))
}

func runShell(ctx context.Context, application *app.App, rt *router.Router) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println(`Commands: products, product <id>, cart, orders, login, register,
add <id>, checkout, logout, open <#/fragment>, help, quit`)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return
		case "help":
			fmt.Println("products | product <id> | cart | orders | login | register | add <id> | checkout | logout | open <#/fragment> | quit")
		case "products":
			rt.Navigate(ctx, router.RouteProducts, "")
		case "product":
			if len(fields) < 2 {
				fmt.Println("usage: product <id>")
				continue
			}
			rt.Navigate(ctx, router.RouteProduct, fields[1])
		case "cart":
			rt.Navigate(ctx, router.RouteCart, "")
		case "orders":
			rt.Navigate(ctx, router.RouteOrders, "")
		case "open":
			if len(fields) < 2 {
				fmt.Println("usage: open <#/fragment>")
				continue
			}
			rt.NavigateFragment(ctx, fields[1])
		case "login":
			rt.Navigate(ctx, router.RouteLogin, "")
			username := prompt(scanner, "username: ")
			password := prompt(scanner, "password: ")
			application.SubmitLogin(ctx, username, password)
		case "register":
			rt.Navigate(ctx, router.RouteRegister, "")
			username := prompt(scanner, "username: ")
			email := prompt(scanner, "email: ")
			password := prompt(scanner, "password: ")
			application.SubmitRegister(ctx, username, email, password)
		case "add":
			if len(fields) < 2 {
				fmt.Println("usage: add <id>")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				fmt.Println("usage: add <id>")
				continue
			}
			application.AddToCart(ctx, id)
		case "checkout":
			application.PlaceOrder(ctx)
		case "logout":
			application.Logout(ctx)
		default:
			rt.NavigateFragment(ctx, fields[0])
		}
	}
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
