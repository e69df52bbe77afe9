package main

import (
	"context"
	"fmt"
	"log"

	holmes "github.com/msg-systems/holmes-extractor-sub002"
	"github.com/msg-systems/holmes-extractor-sub002/helper"
	"github.com/msg-systems/holmes-extractor-sub002/model"
)

func buildPhrase() *model.Document {
	b := model.NewDocumentBuilder("Someone opens an account")
	b.AddToken("Someone", "someone", "PRON")
	b.AddToken("opens", "open", "VERB")
	b.AddToken("an", "a", "DET")
	b.AddToken("account", "account", "NOUN")
	b.Link(1, 0, "nsubj")
	b.Link(1, 3, "obj")
	b.Link(3, 2, "det")
	return b.Build()
}

func buildDocument(label, subject string) *model.Document {
	b := model.NewDocumentBuilder(label)
	b.AddToken(subject, subject, "PROPN")
	b.AddToken("opened", "open", "VERB")
	b.AddToken("an", "a", "DET")
	b.AddToken("account", "account", "NOUN")
	b.Link(1, 0, "nsubj")
	b.Link(1, 3, "obj")
	b.Link(3, 2, "det")
	return b.Build()
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	corpus, err := holmes.NewCorpus(dbConfig, model.DefaultConfig(), nil, 384)
	if err != nil {
		log.Fatalf("Failed to open corpus: %v", err)
	}
	defer corpus.Close()

	if _, err := corpus.RegisterSearchPhrase("account opening", buildPhrase()); err != nil {
		log.Fatalf("Failed to register search phrase: %v", err)
	}
	for label, subject := range map[string]string{
		"customer-1": "Smith",
		"customer-2": "Jones",
	} {
		if err := corpus.RegisterDocument(buildDocument(label, subject)); err != nil {
			log.Fatalf("Failed to register document %s: %v", label, err)
		}
	}

	matches := corpus.MatchAll()
	fmt.Printf("Found %d matches\n", len(matches))
	for i, match := range matches {
		fmt.Printf("%d: %s in %s@%d [%0.8f]\n", i, match.SearchPhraseLabel, match.DocumentLabel, match.Anchor, match.OverallSimilarity)
	}

	// Reopen the corpus to show that registrations were persisted.
	reopened, err := holmes.NewCorpus(dbConfig, model.DefaultConfig(), nil, 384)
	if err != nil {
		log.Fatalf("Failed to reopen corpus: %v", err)
	}
	defer reopened.Close()

	fmt.Printf("Reopened corpus has %d documents\n", len(reopened.Manager.DocumentLabels()))
}
