package communication

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchStoreFile broadcasts a STORE_CHANGED event whenever the agent store
// file is written. Moderation happens out of process by editing the file
// directly, so this is how approval flips reach live-feed clients.
//
// The watch is attached to the parent directory rather than the file itself:
// the store may not exist until the first submission, and watching the
// directory also survives editors that replace the file.
func WatchStoreFile(path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Error creating store watcher: %v", err)
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Error creating store directory %s: %v", dir, err)
		return
	}
	if err := watcher.Add(dir); err != nil {
		log.Printf("Error watching store directory %s: %v", dir, err)
		return
	}

	log.Printf("Watching agent store: %s", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				Broadcast(AgentEvent{
					Type:      EventStoreChanged,
					Timestamp: time.Now().Unix(),
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Store watcher error: %v", err)
		}
	}
}
