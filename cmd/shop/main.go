// Command shop is a terminal storefront client. It keeps its session token
// and cart snapshot on disk, so browsing and a partially built cart survive
// restarts, and talks to the API server for everything else.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"termstore/internal/adapters/out/api"
	"termstore/internal/adapters/out/localstore"
	"termstore/internal/storefront"
)

func main() {
	baseURL := flag.String("api", envDefault("TERMSTORE_API", "http://localhost:8080/api/v1"), "storefront API base URL")
	statePath := flag.String("state", defaultStatePath(), "local state file")
	flag.Parse()

	store, err := localstore.NewFile(*statePath)
	if err != nil {
		log.Fatalf("[shop] open state file: %v", err)
	}

	client := api.NewClient(api.Config{BaseURL: *baseURL})
	coord := storefront.New(client, store)

	fmt.Println("termstore - type 'help' for commands")
	if _, ok := coord.Session(); ok {
		fmt.Println("session restored from previous run")
	}
	if snap := coord.CachedCart(); !snap.Empty() {
		fmt.Printf("cached cart: %d line(s), total %.2f (run 'cart' to refresh)\n", len(snap.Lines), snap.Total())
	}

	ctx := context.Background()
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			fmt.Println()
			return
		}
		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			printHelp()
		case "browse":
			doBrowse(ctx, coord)
		case "product":
			if len(args) < 2 {
				fmt.Println("usage: product <id>")
				continue
			}
			doProduct(ctx, coord, args[1])
		case "add":
			if len(args) < 2 {
				fmt.Println("usage: add <productId> [qty]")
				continue
			}
			qty := 1
			if len(args) >= 3 {
				n, err := strconv.Atoi(args[2])
				if err != nil {
					fmt.Println("qty must be a number")
					continue
				}
				qty = n
			}
			snap, err := coord.AddItem(ctx, args[1], qty)
			if report(err) {
				continue
			}
			printCart(snap)
		case "remove":
			if len(args) < 2 {
				fmt.Println("usage: remove <productId>")
				continue
			}
			snap, err := coord.RemoveItem(ctx, args[1])
			if report(err) {
				continue
			}
			printCart(snap)
		case "cart":
			snap, err := coord.LoadCart(ctx)
			if report(err) {
				continue
			}
			printCart(snap)
		case "checkout":
			coupon := ""
			if len(args) >= 2 {
				coupon = args[1]
			}
			orderID, err := coord.Checkout(ctx, coupon)
			if report(err) {
				continue
			}
			fmt.Printf("order placed: %s\n", orderID)
		case "login":
			if len(args) < 3 {
				fmt.Println("usage: login <username> <password>")
				continue
			}
			if report(coord.Login(ctx, args[1], args[2])) {
				continue
			}
			fmt.Println("logged in")
		case "register":
			if len(args) < 4 {
				fmt.Println("usage: register <username> <email> <password>")
				continue
			}
			if report(coord.Register(ctx, args[1], args[2], args[3])) {
				continue
			}
			fmt.Println("registered; now log in")
		case "whoami":
			id, err := coord.Identity(ctx)
			if report(err) {
				continue
			}
			fmt.Printf("%s <%s> (%s)\n", id.Username, id.Email, id.Role)
		case "logout":
			coord.Logout(ctx)
			fmt.Println("logged out")
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q; type 'help'\n", args[0])
		}
	}
}

func doBrowse(ctx context.Context, coord *storefront.Coordinator) {
	cats, err := coord.Browse(ctx)
	if report(err) {
		return
	}
	for _, cat := range cats {
		fmt.Printf("%s (%s)\n", cat.Name, cat.ID)
		for _, p := range cat.Products {
			fmt.Printf("  %-12s %-24s %8.2f  stock %d\n", p.ID, p.Name, p.Price, p.Stock)
		}
	}
}

func doProduct(ctx context.Context, coord *storefront.Coordinator, id string) {
	p, err := coord.ProductDetail(ctx, id)
	if report(err) {
		return
	}
	fmt.Printf("%s (%s)\n", p.Name, p.ID)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	fmt.Printf("price %.2f, stock %d\n", p.Price, p.Stock)
	if p.ImageURL != "" {
		fmt.Printf("image: %s\n", p.ImageURL)
	}
}

func printCart(snap storefront.CartSnapshot) {
	if snap.Empty() {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range snap.Lines {
		name := l.Name
		if name == "" {
			name = l.ProductID
		}
		fmt.Printf("  %-12s %-24s x%-3d %8.2f\n", l.ProductID, name, l.Quantity, l.LineTotal)
	}
	fmt.Printf("total: %.2f\n", snap.Total())
}

// report prints err for the user and returns true when there was one.
// Each outcome kind renders differently: auth problems steer to login,
// transport problems say try again, refusals show the server's wording.
func report(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case storefront.IsAuthRequired(err):
		fmt.Println("login required (session missing or expired)")
	case storefront.IsNetworkError(err):
		fmt.Printf("network trouble, nothing changed: %v\n", err)
	default:
		if rej, ok := storefront.AsRejection(err); ok {
			fmt.Println(rej.Message)
			break
		}
		fmt.Println(err)
	}
	return true
}

func printHelp() {
	fmt.Print(`commands:
  browse                      list categories and products
  product <id>                show one product
  add <productId> [qty]       add to cart (default qty 1)
  remove <productId>          remove a cart line
  cart                        fetch the authoritative cart
  checkout [couponCode]       place the order
  login <user> <password>
  register <user> <email> <password>
  whoami                      verify the session
  logout
  quit
`)
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".termstore.json"
	}
	return filepath.Join(home, ".termstore.json")
}
