// Package intent routes untargeted chat questions to a context-loading
// strategy. Classification is deterministic keyword matching; it is only
// consulted for general conversations; targeted friend chats skip it and
// always load full detail for that one friend.
package intent

import (
	"strings"

	"golang.org/x/text/cases"
)

// Intent is the classified question category.
type Intent string

const (
	// IntentFriendsList asks who the user's friends are ("who do I know?").
	IntentFriendsList Intent = "friends_list"

	// IntentContactAdvice asks who the user should reach out to.
	IntentContactAdvice Intent = "contact_advice"

	// IntentGeneral is everything else; general questions load no friend
	// data at all to keep prompts small.
	IntentGeneral Intent = "general"
)

// Classifier matches questions against curated keyword sets with a fixed
// precedence: friends-list beats contact-advice beats general.
type Classifier struct {
	friendsListKeywords   []string
	contactAdviceKeywords []string
	folder                cases.Caser
}

// NewClassifier creates a classifier with the default keyword sets
// (English and Turkish, matching the app's supported locales).
func NewClassifier() *Classifier {
	return &Classifier{
		friendsListKeywords: []string{
			// English
			"which friends", "my friends", "friend list", "list of friends",
			"how many friends", "who do i know", "who can i reach",
			// Turkish
			"hangi arkadaş", "arkadaşlarım", "arkadaş listesi",
			"kaç arkadaş", "kimler var", "kime eriş",
		},
		contactAdviceKeywords: []string{
			// English
			"who should i talk", "who should i call", "who should i message",
			"who should i contact", "who to reach out", "i forgot to contact",
			"need to talk to",
			// Turkish
			"kiminle konuş", "kime mesaj", "kimi ara",
			"kimle iletişim", "unuttuğum", "konuşmam gereken",
		},
		folder: cases.Fold(),
	}
}

// Classify determines the intent of a free-text question.
// Precedence is fixed: FriendsList, then ContactAdvice, then General.
func (c *Classifier) Classify(question string) Intent {
	folded := c.folder.String(question)

	if containsAny(folded, c.friendsListKeywords, c.folder) {
		return IntentFriendsList
	}
	if containsAny(folded, c.contactAdviceKeywords, c.folder) {
		return IntentContactAdvice
	}
	return IntentGeneral
}

func containsAny(folded string, keywords []string, folder cases.Caser) bool {
	for _, kw := range keywords {
		if strings.Contains(folded, folder.String(kw)) {
			return true
		}
	}
	return false
}
