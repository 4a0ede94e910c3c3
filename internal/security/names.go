package security

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Word lists for friendly default player names
var adjectives = []string{
	"happy", "sunny", "brave", "bright", "swift", "clever", "jolly", "mighty",
	"lucky", "magic", "bouncy", "cheerful", "daring", "gentle", "merry", "noble",
	"quick", "royal", "zippy", "bold", "cosmic", "epic", "groovy", "kind",
}

var nouns = []string{
	"dragon", "tiger", "eagle", "dolphin", "panda", "lion", "falcon", "bear",
	"fox", "camel", "phoenix", "unicorn", "rocket", "wizard", "knight", "robot",
	"explorer", "ranger", "captain", "comet", "star", "storm", "gazelle", "owl",
}

// PlayerName returns a random "Adjective Noun" name for a player who did not type one
func PlayerName() string {
	return title(randomElement(adjectives)) + " " + title(randomElement(nouns))
}

func randomElement(words []string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return words[0]
	}
	return words[n.Int64()]
}

func title(word string) string {
	return strings.ToUpper(word[:1]) + word[1:]
}
