package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	holmes "github.com/msg-systems/holmes-extractor-sub002"
	"github.com/msg-systems/holmes-extractor-sub002/model"
	"github.com/msg-systems/holmes-extractor-sub002/worker"
)

func main() {
	app := &cli.App{
		Name:  "holmes",
		Usage: "Structural matching over parsed document graphs",
		Commands: []*cli.Command{
			{
				Name:   "match",
				Usage:  "Match search phrases against documents",
				Action: matchCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "phrase",
						Aliases:  []string{"p"},
						Usage:    "Path to a search phrase JSON file (repeatable)",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "doc",
						Aliases:  []string{"d"},
						Usage:    "Path to a parsed document JSON file (repeatable)",
						Required: true,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Overall similarity threshold",
						Value: model.DefaultConfig().OverallSimilarityThreshold,
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of parallel matching workers (0 disables the pool)",
						Value:   0,
					},
				},
			},
			{
				Name:   "validate",
				Usage:  "Validate search phrase files without matching",
				Action: validateCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "phrase",
						Aliases:  []string{"p"},
						Usage:    "Path to a search phrase JSON file (repeatable)",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// phraseFile is the on-disk form of a search phrase: a label plus the parsed
// example sentence.
type phraseFile struct {
	Label string          `json:"label"`
	Doc   *model.Document `json:"doc"`
}

func matchCommand(c *cli.Context) error {
	cfg := model.DefaultConfig()
	cfg.OverallSimilarityThreshold = c.Float64("threshold")

	manager, err := holmes.NewManager(cfg, nil)
	if err != nil {
		return err
	}

	for _, path := range c.StringSlice("phrase") {
		phrase, err := readPhraseFile(path)
		if err != nil {
			return err
		}
		if _, err := manager.RegisterSearchPhrase(phrase.Label, phrase.Doc); err != nil {
			return fmt.Errorf("search phrase %s: %w", path, err)
		}
	}

	for _, path := range c.StringSlice("doc") {
		doc, err := readDocumentFile(path)
		if err != nil {
			return err
		}
		if err := manager.RegisterDocument(doc); err != nil {
			return fmt.Errorf("document %s: %w", path, err)
		}
	}

	var matches []*model.Match
	if workers := c.Int("workers"); workers > 0 {
		corpusMatcher, err := worker.NewCorpusMatcher(manager, worker.WithPoolSize(workers))
		if err != nil {
			return err
		}
		defer corpusMatcher.Release()
		matches, err = corpusMatcher.MatchAll()
		if err != nil {
			return err
		}
	} else {
		matches = manager.MatchAll()
	}

	fmt.Printf("Found %d matches\n", len(matches))
	for i, match := range matches {
		fmt.Printf("%d: %s in %s@%d [%0.8f]", i, match.SearchPhraseLabel, match.DocumentLabel, match.Anchor, match.OverallSimilarity)
		if match.Negated {
			fmt.Print(" negated")
		}
		if match.Uncertain {
			fmt.Print(" uncertain")
		}
		fmt.Println()
		for _, wordMatch := range match.WordMatches {
			fmt.Printf("    %q -> %q (%s, %0.8f)\n", wordMatch.SearchPhraseWord, wordMatch.DocumentWord, wordMatch.Kind, wordMatch.Similarity)
		}
	}
	return nil
}

func validateCommand(c *cli.Context) error {
	failures := 0
	for _, path := range c.StringSlice("phrase") {
		phrase, err := readPhraseFile(path)
		if err != nil {
			return err
		}
		if _, err := model.NewSearchPhrase(phrase.Label, phrase.Doc, nil); err != nil {
			fmt.Printf("%s: %v\n", path, err)
			failures++
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d search phrases invalid", failures, len(c.StringSlice("phrase")))
	}
	return nil
}

func readPhraseFile(path string) (*phraseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var phrase phraseFile
	if err := json.Unmarshal(data, &phrase); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &phrase, nil
}

func readDocumentFile(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
