// Command generate_demo creates a demo database with sample highlights from
// public domain books, ready for browsing and review sessions.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/wardeiling/FreeWise/internal/database"
	"github.com/wardeiling/FreeWise/internal/database/books"
	"github.com/wardeiling/FreeWise/internal/database/reviews"
	"github.com/wardeiling/FreeWise/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	bookRepo := books.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)

	for _, cfg := range getPublicDomainBooks() {
		book, err := bookRepo.GetOrCreateBook(cfg.Title, cfg.Author)
		if err != nil {
			log.Printf("Failed to save book %s: %v", cfg.Title, err)
			continue
		}

		if cfg.FrequencyWeight != 0 {
			if err := bookRepo.UpdateBook(book.ID, map[string]any{"frequency_weight": cfg.FrequencyWeight}); err != nil {
				log.Printf("Failed to set frequency weight for %s: %v", cfg.Title, err)
			}
		}

		for i, h := range cfg.Highlights {
			highlightedAt := time.Now().AddDate(0, 0, -(len(cfg.Highlights) - i))
			highlight := &entities.Highlight{
				BookID:        book.ID,
				Text:          h.Text,
				Note:          h.Note,
				LocationType:  entities.LocationTypeOrder,
				LocationValue: i + 1,
				SortOrder:     i + 1,
				HighlightedAt: &highlightedAt,
			}
			if err := bookRepo.CreateHighlight(highlight); err != nil {
				log.Printf("Failed to save highlight for %s: %v", cfg.Title, err)
				continue
			}
			if h.Favorite {
				if err := reviewRepo.TransitionStatus(highlight.ID, entities.ReviewStatusActive, entities.ReviewStatusFavorited); err != nil {
					log.Printf("Failed to favourite highlight %d: %v", highlight.ID, err)
				}
			}
		}

		log.Printf("Saved: %s by %s (%d highlights)", cfg.Title, cfg.Author, len(cfg.Highlights))
	}

	log.Println("Demo database generated successfully!")
}

// demoHighlight is one seeded highlight; Favorite pre-marks it favourited.
type demoHighlight struct {
	Text     string
	Note     string
	Favorite bool
}

// demoBook holds a book and its seeded highlights.
type demoBook struct {
	Title           string
	Author          string
	FrequencyWeight float64
	Highlights      []demoHighlight
}

func getPublicDomainBooks() []demoBook {
	return []demoBook{
		{
			Title:           "Meditations",
			Author:          "Marcus Aurelius",
			FrequencyWeight: 1.5,
			Highlights: []demoHighlight{
				{Text: "You have power over your mind - not outside events. Realize this, and you will find strength.", Favorite: true},
				{Text: "The happiness of your life depends upon the quality of your thoughts."},
				{Text: "Waste no more time arguing about what a good man should be. Be one.", Note: "Action over theory."},
				{Text: "Very little is needed to make a happy life; it is all within yourself, in your way of thinking."},
				{Text: "The soul becomes dyed with the color of its thoughts.", Favorite: true},
				{Text: "Accept the things to which fate binds you, and love the people with whom fate brings you together, and do so with all your heart."},
				{Text: "When you arise in the morning, think of what a precious privilege it is to be alive - to breathe, to think, to enjoy, to love."},
				{Text: "Never esteem anything as of advantage to you that will make you break your word or lose your self-respect."},
			},
		},
		{
			Title:  "Letters from a Stoic",
			Author: "Seneca",
			Highlights: []demoHighlight{
				{Text: "We suffer more often in imagination than in reality.", Favorite: true},
				{Text: "Luck is what happens when preparation meets opportunity."},
				{Text: "It is not that we have a short time to live, but that we waste a lot of it."},
				{Text: "Difficulties strengthen the mind, as labor does the body."},
				{Text: "True happiness is to enjoy the present, without anxious dependence upon the future."},
				{Text: "Associate with people who are likely to improve you. Welcome those whom you are capable of improving."},
			},
		},
		{
			Title:  "On the Origin of Species",
			Author: "Charles Darwin",
			Highlights: []demoHighlight{
				{Text: "It is not the strongest of the species that survives, nor the most intelligent that survives. It is the one that is most adaptable to change.", Favorite: true},
				{Text: "A man who dares to waste one hour of time has not discovered the value of life."},
				{Text: "In the long history of humankind those who learned to collaborate and improvise most effectively have prevailed."},
				{Text: "The love for all living creatures is the most noble attribute of man."},
				{Text: "There is grandeur in this view of life, with its several powers, having been originally breathed into a few forms or into one."},
			},
		},
		{
			Title:  "Pride and Prejudice",
			Author: "Jane Austen",
			Highlights: []demoHighlight{
				{Text: "It is a truth universally acknowledged, that a single man in possession of a good fortune, must be in want of a wife."},
				{Text: "I declare after all there is no enjoyment like reading! How much sooner one tires of any thing than of a book!", Favorite: true},
				{Text: "Vanity and pride are different things, though the words are often used synonymously. A person may be proud without being vain."},
				{Text: "There is a stubbornness about me that never can bear to be frightened at the will of others. My courage always rises at every attempt to intimidate me."},
				{Text: "I cannot fix on the hour, or the spot, or the look, or the words, which laid the foundation. It is too long ago. I was in the middle before I knew that I had begun."},
			},
		},
		{
			Title:  "War and Peace",
			Author: "Leo Tolstoy",
			Highlights: []demoHighlight{
				{Text: "The two most powerful warriors are patience and time.", Favorite: true},
				{Text: "Nothing is so necessary for a young man as the company of intelligent women."},
				{Text: "We can know only that we know nothing. And that is the highest degree of human wisdom."},
				{Text: "If everyone fought for their own convictions there would be no war."},
				{Text: "Everything I know, I know only because I love."},
			},
		},
		{
			Title:  "Crime and Punishment",
			Author: "Fyodor Dostoevsky",
			Highlights: []demoHighlight{
				{Text: "Pain and suffering are always inevitable for a large intelligence and a deep heart."},
				{Text: "The soul is healed by being with children."},
				{Text: "To go wrong in one's own way is better than to go right in someone else's.", Favorite: true},
				{Text: "Taking a new step, uttering a new word, is what people fear most."},
				{Text: "Man grows used to everything, the scoundrel!"},
			},
		},
		{
			Title:           "The Art of War",
			Author:          "Sun Tzu",
			FrequencyWeight: 0.5,
			Highlights: []demoHighlight{
				{Text: "If you know the enemy and know yourself, you need not fear the result of a hundred battles.", Favorite: true},
				{Text: "In the midst of chaos, there is also opportunity."},
				{Text: "The supreme art of war is to subdue the enemy without fighting."},
				{Text: "Victorious warriors win first and then go to war, while defeated warriors go to war first and then seek to win."},
				{Text: "Appear weak when you are strong, and strong when you are weak."},
			},
		},
		{
			Title:  "The Picture of Dorian Gray",
			Author: "Oscar Wilde",
			Highlights: []demoHighlight{
				{Text: "To define is to limit."},
				{Text: "The only way to get rid of a temptation is to yield to it.", Favorite: true},
				{Text: "Experience is merely the name men gave to their mistakes."},
				{Text: "Behind every exquisite thing that existed, there was something tragic."},
				{Text: "The books that the world calls immoral are books that show the world its own shame."},
			},
		},
	}
}
