package database

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// LDNOOBW English profanity list, one lowercase word per line.
const badWordsURL = "https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/refs/heads/master/en"

// SeedBadWords populates the profanity table on first startup. The
// table screens player display names before they can reach the
// leaderboard.
func (db *DB) SeedBadWords() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM bad_words").Scan(&count); err != nil {
		return fmt.Errorf("count bad_words rows: %w", err)
	}
	if count > 0 {
		log.Printf("Profanity list already seeded (%d words)", count)
		return nil
	}

	words, err := fetchWordList(badWordsURL)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin bad words insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(db.Dialect.RewriteQuery("INSERT INTO bad_words (word) VALUES (?)"))
	if err != nil {
		return fmt.Errorf("prepare bad words insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, word := range words {
		if _, err := stmt.Exec(word); err != nil {
			// Duplicates in the source list are harmless, keep going.
			continue
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bad words insert: %w", err)
	}

	log.Printf("Profanity list seeded with %d words", added)
	return nil
}

// fetchWordList downloads the list and returns its non-empty lines,
// lowercased.
func fetchWordList(url string) ([]string, error) {
	log.Println("Downloading bad words list...")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download word list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("word list request returned status %d", resp.StatusCode)
	}

	var words []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		word := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return words, nil
}

// IsBadWord reports whether the word is on the profanity list.
func (db *DB) IsBadWord(word string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM bad_words WHERE word = ?",
		strings.TrimSpace(strings.ToLower(word))).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("look up bad word: %w", err)
	}
	return count > 0, nil
}

// NameContainsBadWord checks a player display name against the filter.
// Names are split on spaces, hyphens, underscores and digits so that
// "Speedy_Word123" is checked as "speedy" and "word".
func (db *DB) NameContainsBadWord(name string) (bool, error) {
	tokens := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})

	for _, token := range tokens {
		isBad, err := db.IsBadWord(token)
		if err != nil {
			return false, err
		}
		if isBad {
			return true, nil
		}
	}

	return false, nil
}
