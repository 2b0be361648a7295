// Package seed loads the sample shop catalog and demo pandit used in
// development databases.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/session"
)

const placeholderImage = "/placeholder.svg"

type catalogEntry struct {
	name, description string
	price             int64
}

var catalog = []catalogEntry{
	{"Sacred Rudraksha Mala", "Authentic 108 beads Rudraksha mala for meditation and spiritual practice. Made from genuine Rudraksha seeds.", 1499},
	{"Brass Ganesha Idol", "Handcrafted brass Ganesha idol for home temple and daily worship. Height: 6 inches.", 2999},
	{"Sandalwood Incense Sticks", "Premium quality sandalwood incense sticks for aromatic prayers. Pack of 50 sticks.", 299},
	{"Copper Kalash", "Traditional copper kalash for puja ceremonies and rituals. Ideal for festivals.", 899},
	{"Tulsi Plant with Pot", "Sacred Tulsi plant with decorative terracotta pot for spiritual benefits and daily worship.", 599},
	{"Pure Camphor Tablets", "Pure camphor tablets for aarti and spiritual ceremonies. Pack of 20 tablets.", 199},
	{"Silver Pooja Thali Set", "Complete silver plated pooja thali set with diya, incense holder, and accessories.", 3499},
	{"Bhagavad Gita Book", "Sacred Bhagavad Gita with Hindi and English translation. Hardcover edition.", 799},
	{"Marble Shiva Lingam", "Beautiful marble Shiva Lingam for home temple worship. Hand-carved with base.", 1899},
	{"Crystal Mala Beads", "Clear crystal mala with 108 beads for meditation and chanting. Authentic healing crystals.", 999},
	{"Brass Oil Lamp (Diya)", "Traditional brass oil lamp for daily aarti and festivals. Decorative design.", 399},
	{"Kumkum and Turmeric Set", "Organic kumkum and turmeric powder set for tilaka and religious ceremonies.", 149},
}

// ShopItems returns the sample catalog with fresh ids.
func ShopItems() []model.ShopItem {
	img := placeholderImage
	out := make([]model.ShopItem, 0, len(catalog))
	for _, e := range catalog {
		desc := e.description
		out = append(out, model.ShopItem{
			ID:          uuid.NewString(),
			Name:        e.name,
			Description: &desc,
			Price:       e.price,
			ImageURL:    &img,
		})
	}
	return out
}

// CatalogStore is implemented by repository.ShopRepo.
type CatalogStore interface {
	Count(ctx context.Context) (int, error)
	CreateMany(ctx context.Context, items []model.ShopItem) error
}

// Catalog inserts the sample items unless the table already has rows.  It
// reports how many items were added.
func Catalog(ctx context.Context, store CatalogStore) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count shop items: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	items := ShopItems()
	if err := store.CreateMany(ctx, items); err != nil {
		return 0, fmt.Errorf("insert shop items: %w", err)
	}
	return len(items), nil
}

// ProfileUpdater is implemented by service.ProfileService.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, ownerID string, patch model.ProfilePatch) (*model.Profile, error)
}

// SamplePandit registers the demo Varanasi pandit with the given
// credentials and fills in the provider details.
func SamplePandit(ctx context.Context, auth session.Authenticator, profiles ProfileUpdater, email, password string) (*model.Profile, error) {
	sess, err := auth.Register(ctx, session.SignUpInput{
		Email:      email,
		Password:   password,
		FullName:   "Pandit Demo User",
		AsProvider: true,
	})
	if err != nil {
		return nil, fmt.Errorf("register sample pandit: %w", err)
	}

	phone := "+91 9876543210"
	address := "Varanasi, Uttar Pradesh"
	specialty := "Vedic Rituals, Puja Ceremonies"
	years := 10
	rate := int64(1500)
	p, err := profiles.UpdateProfile(ctx, sess.ProfileID(), model.ProfilePatch{
		Phone:           &phone,
		Address:         &address,
		Specialization:  &specialty,
		ExperienceYears: &years,
		RatePerHour:     &rate,
	})
	if err != nil {
		return nil, fmt.Errorf("fill sample pandit profile: %w", err)
	}
	return p, nil
}
