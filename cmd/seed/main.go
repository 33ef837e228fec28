// Command main runs the database seeder for Threadline.
package main

import (
	"context"
	"flag"
	"log"

	"threadline/internal/config"
	"threadline/internal/database"
	"threadline/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	comments := flag.Int("comments", 3, "Comments per post")
	likes := flag.Int("likes", 5, "Maximum likes per post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	summary, err := seed.Seed(context.Background(), db, seed.Options{
		NumUsers:        *numUsers,
		NumPosts:        *numPosts,
		CommentsPerPost: *comments,
		LikesPerPost:    *likes,
		ShouldClean:     *shouldClean,
		Seed:            *randSeed,
		BcryptCost:      cfg.BcryptCost,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d comments, %d likes",
		summary.Users, summary.Posts, summary.Comments, summary.Likes)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
