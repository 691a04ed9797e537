// Command points-console is an interactive terminal client for the loyalty
// points API: registering customers, recording purchases, redeeming points,
// and querying points earned over time.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/elahi-market/points-console/internal/config"
	"github.com/elahi-market/points-console/internal/datecalc"
	"github.com/elahi-market/points-console/internal/gateway"
	"github.com/elahi-market/points-console/internal/notify"
	"github.com/elahi-market/points-console/internal/numeric"
	"github.com/elahi-market/points-console/internal/views"
	"github.com/elahi-market/points-console/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to points.yaml (optional)")
		envFile    = flag.String("env", ".env", "Path to .env file (optional)")
		baseURL    = flag.String("base-url", "", "Points API base URL (overrides config)")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Fatalf("load env (%s): %v", *envFile, err)
	}

	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.LoadFromPath(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}

	appLog := logger.New("points-console", cfg.Log.Level)

	api, err := gateway.New(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Delay:   cfg.API.Delay,
		Log:     appLog.WithField("component", "gateway"),
	})
	if err != nil {
		log.Fatalf("init gateway: %v", err)
	}

	notes := notify.NewCenter(cfg.Notify.TTL)
	go printNotifications(notes.Subscribe())

	calc := datecalc.New(nil)
	app := &console{
		list:     views.NewList(api, notes, appLog.WithField("screen", "list")),
		register: views.NewRegister(api, notes, appLog.WithField("screen", "register")),
		earn:     views.NewEarn(api, notes, appLog.WithField("screen", "earn")),
		redeem:   views.NewRedeem(api, notes, appLog.WithField("screen", "redeem")),
		detail:   views.NewDetail(api, notes, calc, appLog.WithField("screen", "detail")),
		in:       bufio.NewScanner(os.Stdin),
	}

	fmt.Printf("Elahi points console - API %s\n", cfg.API.BaseURL)
	fmt.Println("Commands: list, register, earn, redeem, view, update, delete, points, months, help, quit")
	app.run(context.Background())
}

func printNotifications(ch <-chan notify.Message) {
	for msg := range ch {
		fmt.Printf("[%s] %s\n", msg.Kind, msg.Text)
	}
}

type console struct {
	list     *views.ListController
	register *views.RegisterController
	earn     *views.EarnController
	redeem   *views.RedeemController
	detail   *views.DetailController
	in       *bufio.Scanner
}

func (c *console) run(ctx context.Context) {
	for {
		fmt.Print("> ")
		if !c.in.Scan() {
			return
		}
		cmd := strings.TrimSpace(strings.ToLower(c.in.Text()))
		switch cmd {
		case "":
			continue
		case "quit", "exit":
			return
		case "help":
			fmt.Println("list, register, earn, redeem, view, update, delete, points, months, quit")
		case "list":
			c.runList(ctx)
		case "register":
			c.runRegister(ctx)
		case "earn":
			c.runEarn(ctx)
		case "redeem":
			c.runRedeem(ctx)
		case "view":
			c.runView(ctx)
		case "update":
			c.runUpdate(ctx)
		case "delete":
			c.runDelete(ctx)
		case "points":
			c.runPoints(ctx)
		case "months":
			c.runMonths(ctx)
		default:
			fmt.Printf("unknown command %q (try help)\n", cmd)
		}
	}
}

func (c *console) prompt(label string) string {
	fmt.Printf("%s: ", label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *console) runList(ctx context.Context) {
	if err := c.list.Refresh(ctx); err != nil {
		return
	}
	customers := c.list.Customers()
	if len(customers) == 0 {
		fmt.Println("No customers found.")
		return
	}
	fmt.Printf("%-12s %-24s %s\n", "ID", "NAME", "POINTS")
	for _, customer := range customers {
		fmt.Printf("%-12s %-24s %d\n", customer.ID, customer.Name, customer.TotalPoints)
	}
}

func (c *console) runRegister(ctx context.Context) {
	c.register.SetForm(views.RegisterForm{
		CustomerID:    c.prompt("customer id"),
		Name:          c.prompt("name"),
		InitialPoints: c.prompt("initial points (optional)"),
	})
	c.register.Submit(ctx)
}

func (c *console) runEarn(ctx context.Context) {
	c.earn.SetForm(views.EarnForm{
		CustomerID: c.prompt("customer id"),
		Amount:     c.prompt("purchase amount"),
	})
	c.earn.Submit(ctx)
}

func (c *console) runRedeem(ctx context.Context) {
	c.redeem.SetForm(views.RedeemForm{
		CustomerID:        c.prompt("customer id"),
		PointsToRedeem:    c.prompt("points to redeem"),
		RewardDescription: c.prompt("reward description"),
	})
	c.redeem.Submit(ctx)
}

func (c *console) runView(ctx context.Context) {
	if err := c.detail.Fetch(ctx, c.prompt("customer id")); err != nil {
		return
	}
	customer, ok := c.detail.Customer()
	if !ok {
		return
	}
	fmt.Printf("%s - %s - %d points\n", customer.ID, customer.Name, customer.TotalPoints)
}

func (c *console) runUpdate(ctx context.Context) {
	if _, ok := c.detail.Customer(); !ok {
		fmt.Println("Fetch a customer first (view).")
		return
	}
	c.detail.UpdateName(ctx, c.prompt("new name"))
}

func (c *console) runDelete(ctx context.Context) {
	customer, ok := c.detail.Customer()
	if !ok {
		fmt.Println("Fetch a customer first (view).")
		return
	}
	answer := c.prompt(fmt.Sprintf("permanently delete %s (%s)? type yes to confirm", customer.Name, customer.ID))
	c.detail.Delete(ctx, answer == "yes")
}

func (c *console) runPoints(ctx context.Context) {
	if err := c.detail.OpenRangeDialog(); err != nil {
		return
	}
	start := c.prompt("start date (YYYY-MM-DD)")
	end := c.prompt("end date (YYYY-MM-DD)")
	if err := c.detail.PointsByRange(ctx, start, end); err != nil {
		return
	}
	c.printResult()
}

func (c *console) runMonths(ctx context.Context) {
	months := numeric.ParseInt(c.prompt("how many months back"))
	if months <= 0 {
		fmt.Println("Months must be a positive number.")
		return
	}
	if err := c.detail.PointsByMonths(ctx, months); err != nil {
		return
	}
	c.printResult()
}

func (c *console) printResult() {
	result, ok := c.detail.Result()
	if !ok {
		return
	}
	fmt.Printf("%d points earned between %s and %s\n", result.PointsEarned, result.StartDate, result.EndDate)
}
