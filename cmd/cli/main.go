package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/amirasaad/coinshop/app"
	"github.com/amirasaad/coinshop/infra/initializer"
	"github.com/amirasaad/coinshop/pkg/config"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/term"
)

func main() {
	argsLen := len(os.Args)
	if argsLen < 2 {
		fmt.Println("Usage: cli <command> [arguments]")
		fmt.Println("Commands:")
		fmt.Println("  register <username> <buyer|seller>")
		fmt.Println("  add-product <seller_id> <name> <price> <quantity>")
		fmt.Println("  products")
		fmt.Println("  users")
		return
	}
	cmd := os.Args[1]

	cfg, err := config.Load(".env")
	if err != nil {
		color.Red("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		color.Red("Failed to initialize dependencies: %v", err)
		os.Exit(1)
	}
	a := app.New(deps, cfg)
	ctx := context.Background()

	switch cmd {
	case "register":
		if argsLen < 4 {
			fmt.Println("Usage: register <username> <buyer|seller>")
			return
		}
		username, role := os.Args[2], os.Args[3]
		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			color.Red("Failed to read password: %v", err)
			os.Exit(1)
		}
		acct, err := a.AccountService.Register(ctx, username, string(password), role)
		if err != nil {
			color.Red("Error creating account: %v", err)
			os.Exit(1)
		}
		color.Green("Account created: ID=%s, Role=%s", acct.ID, acct.Role)
	case "add-product":
		if argsLen < 6 {
			fmt.Println("Usage: add-product <seller_id> <name> <price> <quantity>")
			return
		}
		sellerID, err := uuid.Parse(os.Args[2])
		if err != nil {
			color.Red("Invalid seller ID: %v", err)
			os.Exit(1)
		}
		price, err := strconv.ParseInt(os.Args[4], 10, 64)
		if err != nil {
			color.Red("Invalid price: %v", err)
			os.Exit(1)
		}
		quantity, err := strconv.ParseInt(os.Args[5], 10, 64)
		if err != nil {
			color.Red("Invalid quantity: %v", err)
			os.Exit(1)
		}
		prod, err := a.ProductService.Create(ctx, os.Args[3], price, quantity, sellerID)
		if err != nil {
			color.Red("Error creating product: %v", err)
			os.Exit(1)
		}
		color.Green("Product created: ID=%s, Name=%s, Price=%d, Quantity=%d",
			prod.ID, prod.Name, prod.Price, prod.Quantity)
	case "products":
		products, err := a.ProductService.List(ctx)
		if err != nil {
			color.Red("Error listing products: %v", err)
			os.Exit(1)
		}
		for _, p := range products {
			fmt.Printf("%s  %-20s price=%-6d qty=%-4d owner=%s\n",
				p.ID, p.Name, p.Price, p.Quantity, p.OwnerID)
		}
	case "users":
		accounts, err := a.AccountService.List(ctx)
		if err != nil {
			color.Red("Error listing accounts: %v", err)
			os.Exit(1)
		}
		for _, u := range accounts {
			fmt.Printf("%s  %-20s role=%-6s balance=%d\n",
				u.ID, u.Username, u.Role, u.Balance)
		}
	default:
		fmt.Println("Unknown command:", cmd)
	}
}
