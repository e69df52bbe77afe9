package main

import (
	"fmt"
	"log"

	holmes "github.com/msg-systems/holmes-extractor-sub002"
	"github.com/msg-systems/holmes-extractor-sub002/model"
)

// searchPhraseDoc builds the parsed example sentence "A dog chases an
// animal". With the ontology below, "animal" covers the coordinated "cat"
// and "mouse" of the document, so the coordination yields two matches.
func searchPhraseDoc() *model.Document {
	b := model.NewDocumentBuilder("A dog chases an animal")
	b.AddToken("A", "a", "DET")
	b.AddToken("dog", "dog", "NOUN")
	b.AddToken("chases", "chase", "VERB")
	b.AddToken("an", "a", "DET")
	b.AddToken("animal", "animal", "NOUN")
	b.Link(1, 0, "det")
	b.Link(2, 1, "nsubj")
	b.Link(2, 4, "obj")
	b.Link(4, 3, "det")
	return b.Build()
}

// documentDoc builds the parsed document "The dog chased the cat and the
// mouse".
func documentDoc() *model.Document {
	b := model.NewDocumentBuilder("pets")
	b.AddToken("The", "the", "DET")
	b.AddToken("dog", "dog", "NOUN")
	b.AddToken("chased", "chase", "VERB")
	b.AddToken("the", "the", "DET")
	b.AddToken("cat", "cat", "NOUN")
	b.AddToken("and", "and", "CCONJ")
	b.AddToken("the", "the", "DET")
	b.AddToken("mouse", "mouse", "NOUN")
	b.Link(1, 0, "det")
	b.Link(2, 1, "nsubj")
	b.Link(2, 4, "obj")
	b.Link(4, 3, "det")
	b.Link(4, 5, "cc")
	b.Link(4, 7, "conj")
	b.Link(7, 6, "det")
	return b.Build()
}

func main() {
	ontology := model.NewOntology(false)
	ontology.AddRelation("animal", "dog", "cat", "mouse")

	manager, err := holmes.NewManager(model.DefaultConfig(), ontology)
	if err != nil {
		log.Fatalf("Failed to create manager: %v", err)
	}

	if _, err := manager.RegisterSearchPhrase("dog chases animal", searchPhraseDoc()); err != nil {
		log.Fatalf("Failed to register search phrase: %v", err)
	}
	if err := manager.RegisterDocument(documentDoc()); err != nil {
		log.Fatalf("Failed to register document: %v", err)
	}

	matches := manager.MatchAll()
	fmt.Printf("Found %d matches\n", len(matches))
	for i, match := range matches {
		fmt.Printf("%d: %s in %s@%d [%0.8f]\n", i, match.SearchPhraseLabel, match.DocumentLabel, match.Anchor, match.OverallSimilarity)
		for _, wordMatch := range match.WordMatches {
			fmt.Printf("    %q -> %q (%s, %0.8f)\n", wordMatch.SearchPhraseWord, wordMatch.DocumentWord, wordMatch.Kind, wordMatch.Similarity)
		}
	}
}
