package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"talk2me/backend/internal/chat"
	"talk2me/backend/internal/config"
	"talk2me/backend/internal/storage"
)

const usage = `Usage: admin <command> [args]

Commands:
  migrate                                      create or update the schema
  add-user <username> <email> [avatar_url]     register a user
  conversations <user_id> [page] [page_size]   print a user's conversation feed`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, _, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	db, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect database", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	command := os.Args[1]
	if command == "migrate" {
		if err := storage.Migrate(db); err != nil {
			log.Fatal("migration failed", "err", err)
		}
		fmt.Println("Schema is up to date.")
		return
	}

	// Relay не потрібен для CLI
	svc := chat.NewService(storage.NewStorageService(db))

	switch command {
	case "add-user":
		if len(os.Args) < 4 || len(os.Args) > 5 {
			fmt.Println("Usage: admin add-user <username> <email> [avatar_url]")
			os.Exit(1)
		}
		var avatar *string
		if len(os.Args) == 5 {
			avatar = &os.Args[4]
		}
		user, err := svc.CreateUser(ctx, os.Args[2], os.Args[3], avatar)
		if err != nil {
			log.Fatal("error creating user", "err", err)
		}
		fmt.Printf("User %s created with id %d (%s).\n", user.Username, user.ID, user.UniqueUserID)
	case "conversations":
		if len(os.Args) < 3 || len(os.Args) > 5 {
			fmt.Println("Usage: admin conversations <user_id> [page] [page_size]")
			os.Exit(1)
		}
		userID, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			fmt.Println("Invalid user ID. Please provide an integer.")
			os.Exit(1)
		}
		page := argInt(3, 1)
		pageSize := argInt(4, config.DefaultPageSize)

		if err := printConversations(ctx, svc, uint(userID), page, pageSize); err != nil {
			log.Fatal("error listing conversations", "err", err)
		}
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func argInt(pos, fallback int) int {
	if len(os.Args) <= pos {
		return fallback
	}
	v, err := strconv.Atoi(os.Args[pos])
	if err != nil {
		fmt.Printf("Invalid number %q.\n", os.Args[pos])
		os.Exit(1)
	}
	return v
}

func printConversations(ctx context.Context, svc *chat.Service, userID uint, page, pageSize int) error {
	result, err := svc.GetUserConversations(ctx, userID, page, pageSize)
	if err != nil {
		return err
	}

	fmt.Printf("Page %d of %d (%d conversations)\n", result.CurrentPage, result.TotalPages, result.TotalItems)
	for _, c := range result.Conversations {
		at := "-"
		if c.LastMessageAt != nil {
			at = c.LastMessageAt.Format(time.RFC3339)
		}
		fmt.Printf("#%d\t%s\t%s\tunread=%d\t%s\t%s\n", c.ConversationID, c.Type, c.Name, c.UnreadCount, at, c.LastMessage)
	}
	return nil
}
