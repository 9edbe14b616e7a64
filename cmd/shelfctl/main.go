// cmd/shelfctl/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"shelftrack/internal/client"
	"shelftrack/internal/inventory"
)

const usage = `usage: shelfctl <command> [args]

commands:
  add <title>                  add a title to the catalog
  remove <title>               retire a title from the catalog
  checkout <title> <member>    check a title out to a member
  return <title> <member>      return a checked-out title
  reserve <title> <member>     place a hold on a title
  cancel <title> <member>      cancel a hold
  touch <title>                mark a title as just accessed
  status <title>               show one title's state
  shelf                        list the shelf, most recent first
  weed                         show the least recently touched title

The API address is read from SHELFTRACK_URL (default http://localhost:8080).`

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	baseURL := os.Getenv("SHELFTRACK_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	c := client.New(baseURL)
	ctx := context.Background()

	cmd, args := os.Args[1], os.Args[2:]
	title := func(i int) inventory.BookID { return inventory.BookID(arg(args, i)) }
	member := func(i int) inventory.MemberID { return inventory.MemberID(arg(args, i)) }

	var err error
	switch cmd {
	case "add":
		err = c.AddTitle(ctx, title(0))
	case "remove":
		err = c.RemoveTitle(ctx, title(0))
	case "checkout":
		err = c.Checkout(ctx, title(0), member(1))
	case "return":
		err = c.Return(ctx, title(0), member(1))
	case "reserve":
		err = c.Reserve(ctx, title(0), member(1))
	case "cancel":
		err = c.CancelReservation(ctx, title(0), member(1))
	case "touch":
		err = c.TouchAccess(ctx, title(0))
	case "status":
		var t inventory.Title
		if t, err = c.TitleStatus(ctx, title(0)); err == nil {
			printTitle(t)
		}
	case "shelf":
		var seq []inventory.BookID
		if seq, err = c.ShelfSequence(ctx); err == nil {
			if len(seq) == 0 {
				fmt.Println("(shelf is empty)")
			}
			for i, id := range seq {
				fmt.Printf("%3d. %s\n", i+1, id)
			}
		}
	case "weed":
		var id inventory.BookID
		if id, err = c.LeastRecentCandidate(ctx); err == nil {
			fmt.Println(id)
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("shelfctl: %v", err)
	}
}

func arg(args []string, i int) string {
	if i >= len(args) {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	return args[i]
}

func printTitle(t inventory.Title) {
	fmt.Printf("%s: %s", t.ID, t.Status)
	if t.Holder != "" {
		fmt.Printf(" (held by %s)", t.Holder)
	}
	fmt.Println()
	for i, m := range t.Holds {
		fmt.Printf("  hold %d: %s\n", i+1, m)
	}
}
