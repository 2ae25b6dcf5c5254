package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
	"github.com/vivekbhola/mystic-prana-web/pkg/cartclient"
	"github.com/vivekbhola/mystic-prana-web/pkg/checkout"
	"github.com/vivekbhola/mystic-prana-web/pkg/session"
)

type CartShowCmd struct{}

type CartAddCmd struct {
	ID    string `arg:"positional,required" help:"product id"`
	Name  string `arg:"--name,required" help:"product name"`
	Price string `arg:"--price,required" help:"display price, e.g. ₹600"`
	Image string `arg:"--image"`
}

type CartRemoveCmd struct {
	ID string `arg:"positional,required" help:"product id"`
}

type CartSetQtyCmd struct {
	ID       string `arg:"positional,required" help:"product id"`
	Quantity int    `arg:"positional,required"`
}

type CartClearCmd struct{}

type CartCmd struct {
	Show   *CartShowCmd   `arg:"subcommand:show"`
	Add    *CartAddCmd    `arg:"subcommand:add"`
	Remove *CartRemoveCmd `arg:"subcommand:remove"`
	SetQty *CartSetQtyCmd `arg:"subcommand:set-qty"`
	Clear  *CartClearCmd  `arg:"subcommand:clear"`
}

type ServicesCmd struct{}

type CheckoutCmd struct {
	Name    string `arg:"--name,required"`
	Email   string `arg:"--email,required"`
	Phone   string `arg:"--phone,required"`
	Address string `arg:"--address"`
}

type CLI struct {
	Server   string       `arg:"--server,env:PRANA_SERVER" default:"http://localhost:8000" help:"storefront API base URL"`
	Session  string       `arg:"--session" help:"override the persisted session id"`
	Cart     *CartCmd     `arg:"subcommand:cart"`
	Services *ServicesCmd `arg:"subcommand:services"`
	Checkout *CheckoutCmd `arg:"subcommand:checkout"`
}

// consoleNotifier prints the toasts the web storefront would show.
type consoleNotifier struct{}

func (consoleNotifier) Success(msg string) { fmt.Println(msg) }
func (consoleNotifier) Error(msg string)   { fmt.Fprintln(os.Stderr, msg) }

func main() {
	args := &CLI{}
	parser := arg.MustParse(args)

	if err := run(parser, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(parser *arg.Parser, args *CLI) error {
	ctx := context.Background()

	sessionID := args.Session
	if sessionID == "" {
		path, err := session.DefaultPath()
		if err != nil {
			return err
		}
		sessionID, err = session.Load(path)
		if err != nil {
			return err
		}
	}

	api := cartclient.New(args.Server)
	manager := cartclient.NewManager(api, sessionID, consoleNotifier{})

	switch {
	case args.Cart != nil:
		return runCart(ctx, parser, args.Cart, manager)
	case args.Services != nil:
		return runServices(ctx, api)
	case args.Checkout != nil:
		return runCheckout(ctx, args.Checkout, api, manager)
	default:
		parser.WriteHelp(os.Stderr)
	}
	return nil
}

func runCart(ctx context.Context, parser *arg.Parser, cmd *CartCmd, manager *cartclient.Manager) error {
	switch {
	case cmd.Show != nil:
		if err := manager.LoadCart(ctx); err != nil {
			return err
		}
		printCart(manager)
		return nil
	case cmd.Add != nil:
		if err := manager.AddItem(ctx, cartclient.Product{
			ID:    cmd.Add.ID,
			Name:  cmd.Add.Name,
			Price: cmd.Add.Price,
			Image: cmd.Add.Image,
		}); err != nil {
			return err
		}
		printCart(manager)
		return nil
	case cmd.Remove != nil:
		if err := manager.LoadCart(ctx); err != nil {
			return err
		}
		if err := manager.RemoveItem(ctx, cmd.Remove.ID); err != nil {
			return err
		}
		printCart(manager)
		return nil
	case cmd.SetQty != nil:
		if err := manager.LoadCart(ctx); err != nil {
			return err
		}
		if err := manager.UpdateQuantity(ctx, cmd.SetQty.ID, cmd.SetQty.Quantity); err != nil {
			return err
		}
		printCart(manager)
		return nil
	case cmd.Clear != nil:
		return manager.ClearCart(ctx)
	default:
		parser.WriteHelp(os.Stderr)
	}
	return nil
}

func printCart(manager *cartclient.Manager) {
	items := manager.Items()
	if len(items) == 0 {
		fmt.Println("Your cart is empty")
		return
	}
	for _, item := range items {
		fmt.Printf("%-12s %-30s %8s x%d\n", item.ProductID, item.Name, item.Price, item.Quantity)
	}
	fmt.Printf("%d item(s), total ₹%s\n", manager.ItemCount(), manager.Total().StringFixed(2))
}

func runServices(ctx context.Context, api *cartclient.Client) error {
	services, err := api.ListServices(ctx)
	if err != nil {
		return err
	}
	for _, s := range services {
		fmt.Printf("%-28s %-16s %s\n", s.Name, s.Duration, s.PriceRange)
	}
	return nil
}

func runCheckout(ctx context.Context, cmd *CheckoutCmd, api *cartclient.Client, manager *cartclient.Manager) error {
	if err := manager.LoadCart(ctx); err != nil {
		return err
	}

	widget := &checkout.ConsoleWidget{In: os.Stdin, Out: os.Stdout}
	orchestrator := checkout.NewOrchestrator(api, manager, widget,
		checkout.WithNotifier(consoleNotifier{}))

	orderID, err := orchestrator.Checkout(ctx, domain.CustomerInfo{
		Name:    cmd.Name,
		Email:   cmd.Email,
		Phone:   cmd.Phone,
		Address: cmd.Address,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Order confirmed: %s\n", orderID)
	return nil
}
