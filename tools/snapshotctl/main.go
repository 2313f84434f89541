package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"notquiteparadise/internal/infrastructure/storage"
	"notquiteparadise/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	logger.Init(logger.Options{Level: "warn", Format: "text"})

	store, err := storage.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Cannot open %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	switch os.Args[2] {
	case "list":
		list, err := store.List(ctx)
		if err != nil {
			fmt.Printf("List failed: %v\n", err)
			return
		}
		for _, s := range list {
			fmt.Printf("%s  %s  seed=%d  time=%d  round=%d  entities=%d\n",
				s.ID, s.CreatedAt.Format(time.RFC3339), s.Seed, s.GlobalTime, s.Round, s.Entities)
		}
	case "show":
		if len(os.Args) < 4 {
			fmt.Println("Usage: snapshotctl <db> show <snapshot_id|latest>")
			return
		}
		var snap *storage.Snapshot
		if os.Args[3] == "latest" {
			snap, err = store.Latest(ctx)
		} else {
			snap, err = store.Load(ctx, os.Args[3])
		}
		if err != nil {
			fmt.Printf("Load failed: %v\n", err)
			return
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"id":          snap.ID,
			"created_at":  snap.CreatedAt,
			"seed":        snap.Seed,
			"global_time": snap.GlobalTime,
			"round":       snap.Round,
			"map":         fmt.Sprintf("%dx%d", snap.MapWidth, snap.MapHeight),
			"queue":       snap.Queue,
			"entities":    snap.Entities,
		})
	case "delete":
		if len(os.Args) < 4 {
			fmt.Println("Usage: snapshotctl <db> delete <snapshot_id>")
			return
		}
		if err := store.Delete(ctx, os.Args[3]); err != nil {
			fmt.Printf("Delete failed: %v\n", err)
			return
		}
		fmt.Println("deleted")
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`Snapshot Utility - просмотр сохранений
Usage: snapshotctl <db> <command>
Commands:
  list                   - список снимков, новые первыми
  show <id|latest>       - содержимое снимка в JSON
  delete <id>            - удалить снимок`)
}
