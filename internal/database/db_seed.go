package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

// Default accounts created on first boot. The admin password must be
// changed with cmd/usermgr before exposing the site.
const (
	SeedAdminEmail = "admin@gmail.com"
	SeedUserEmail  = "user1@gmail.com"
	seedPassword   = "password"
)

const seedPostTitle = "Beyond the Stars: Humanity's Quest to Explore the Cosmos"

const seedPostSubtitle = "Charting Our Journey from the First Telescope to Interstellar Ambitions"

const seedPostImgURL = "https://parispeaceforum.org/app/uploads/2023/09/net-zero-space-initiative-1.jpg"

const seedPostBody = `
<p>
  <strong>Space</strong> has always fascinated humankind, stirring a profound curiosity about what lies beyond our blue planet.
  From the early astronomers who meticulously mapped the stars to the modern-day engineers designing spacecraft capable of reaching the edge of our solar system,
  <em>our journey into the cosmos is a testament to human ingenuity and wonder.</em>
</p>

<p>
  The story begins with <strong>Galileo's telescope</strong>, a simple instrument that forever changed our understanding of the universe.
  As lenses improved and scientific methods advanced, we discovered planets, moons, and countless celestial phenomena that challenged our place in the cosmos.
</p>

<p>
  Today, our ambitions stretch far beyond Earth's orbit.
  Observatories like the <strong>James Webb Space Telescope</strong> peer deep into the origins of the universe,
  revealing ancient galaxies and potentially habitable exoplanets.
</p>

<p>
  As we stand on the threshold of a new era of exploration, one thing is clear:
  <em>our desire to reach beyond the stars will continue to define us.</em>
</p>
`

// SeedDefaults creates the default admin, a default user and a sample post
// if they do not exist yet. Called once at startup, never from a request
// handler. Safe to call repeatedly.
func (db *Database) SeedDefaults() error {
	admin, err := db.seedUser(SeedAdminEmail, "Admin", true)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	if _, err := db.seedUser(SeedUserEmail, "User 1", false); err != nil {
		return fmt.Errorf("failed to seed default user: %w", err)
	}

	count, err := db.CountPosts()
	if err != nil {
		return fmt.Errorf("failed to count posts: %w", err)
	}
	if count > 0 {
		return nil
	}

	post := &models.BlogPost{
		AuthorID: admin.ID,
		Title:    seedPostTitle,
		Subtitle: seedPostSubtitle,
		Date:     time.Now().Format(models.PostDateFormat),
		Body:     seedPostBody,
		ImgURL:   seedPostImgURL,
	}
	if err := db.InsertPost(post); err != nil {
		return fmt.Errorf("failed to seed sample post: %w", err)
	}
	log.Printf("Seeded sample post %q (id %d)", post.Title, post.ID)
	return nil
}

// seedUser returns the user with the given email, creating it if missing
func (db *Database) seedUser(email, displayName string, isAdmin bool) (*models.User, error) {
	user, err := db.GetUserByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		IsAdmin:      isAdmin,
	}
	if err := db.InsertUser(user); err != nil {
		return nil, err
	}
	log.Printf("Seeded user %q (id %d, admin=%t)", email, user.ID, isAdmin)
	return user, nil
}
