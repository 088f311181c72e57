package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/agentfoundry/agent-directory/api"
	"github.com/agentfoundry/agent-directory/communication"
	"github.com/agentfoundry/agent-directory/store"
	"github.com/agentfoundry/agent-directory/utils"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	dataFile := os.Getenv("AGENTS_FILE")
	if dataFile == "" {
		dataFile = "data/agents.json"
	}
	if !utils.FileExists(dataFile) {
		log.Printf("Agent store %s does not exist yet; it will be created on first submission", dataFile)
	}

	agentStore := store.NewFileStore(dataFile)

	if err := communication.StartBroker(); err != nil {
		log.Fatalf("Failed to start event broker: %v", err)
	}
	go communication.WatchStoreFile(dataFile)

	port := 0
	if p := os.Getenv("PORT"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil {
			log.Fatalf("Invalid PORT %q: %v", p, err)
		}
		port = v
	} else {
		port = utils.FindAvailableAPIPort()
	}

	router := api.NewRouter(agentStore)

	log.Printf("Agent directory API listening on port %d (store: %s)", port, dataFile)
	if err := router.Run(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
