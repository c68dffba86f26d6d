// Command seed-db loads the menu catalog into PostgreSQL and optionally
// creates a demo account. It runs migrations first, so a fresh database
// only needs this one command.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/sweetsalty/backend/db"
	"github.com/sweetsalty/backend/internal/storage/postgres"
)

type localizedJSON struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

type menuItemJSON struct {
	ID          string          `json:"id"`
	Name        localizedJSON   `json:"name"`
	Description localizedJSON   `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    int             `json:"discount"`
	Ingredients []localizedJSON `json:"ingredients"`
	Image       string          `json:"image"`
	MostOrdered bool            `json:"mostOrdered"`
}

type categoryJSON struct {
	ID          string         `json:"id"`
	Name        localizedJSON  `json:"name"`
	Description localizedJSON  `json:"description"`
	Items       []menuItemJSON `json:"items"`
}

type offerJSON struct {
	ID          string        `json:"id"`
	Title       localizedJSON `json:"title"`
	Description localizedJSON `json:"description"`
	Image       string        `json:"image"`
}

type menuJSON struct {
	Categories []categoryJSON `json:"categories"`
	Offers     []offerJSON    `json:"offers"`
}

func main() {
	var (
		databaseURL  string
		menuFile     string
		demoEmail    string
		demoPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "", "path to a menu JSON file (.json or .json.gz); empty uses the embedded menu")
	flag.StringVar(&demoEmail, "demo-email", "", "email of a demo account to create (or SWEETSALTY_DEMO_EMAIL env)")
	flag.StringVar(&demoPassword, "demo-password", "", "password of the demo account (or SWEETSALTY_DEMO_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if demoEmail == "" {
		demoEmail = os.Getenv("SWEETSALTY_DEMO_EMAIL")
	}
	if demoPassword == "" {
		demoPassword = os.Getenv("SWEETSALTY_DEMO_PASSWORD")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile, demoEmail, demoPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile, demoEmail, demoPassword string) error {
	menu, err := loadMenu(menuFile)
	if err != nil {
		return errors.Wrap(err, "load menu")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return seedMenu(ctx, pool, menu)
	})
	g.Go(func() error {
		return seedOffers(ctx, pool, menu.Offers)
	})
	if demoEmail != "" {
		g.Go(func() error {
			return seedDemoUser(ctx, pool, demoEmail, demoPassword)
		})
	}
	return g.Wait()
}

// loadMenu reads the menu from path, transparently decompressing .gz files.
// An empty path falls back to the menu embedded in the binary.
func loadMenu(path string) (*menuJSON, error) {
	data := db.SeedMenu
	if path != "" {
		slog.Info("reading menu file", slog.String("path", path))
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open menu file")
		}
		defer f.Close()

		var r io.Reader = f
		if strings.HasSuffix(path, ".gz") {
			zr, err := pgzip.NewReader(f)
			if err != nil {
				return nil, errors.Wrap(err, "open gzip reader")
			}
			defer zr.Close()
			r = zr
		}
		if data, err = io.ReadAll(r); err != nil {
			return nil, errors.Wrap(err, "read menu file")
		}
	}

	var menu menuJSON
	if err := json.Unmarshal(data, &menu); err != nil {
		return nil, errors.Wrap(err, "parse menu JSON")
	}
	return &menu, nil
}

func seedMenu(ctx context.Context, pool *pgxpool.Pool, menu *menuJSON) error {
	for ci, c := range menu.Categories {
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (id, position, name_en, name_ar, description_en, description_ar)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				position = EXCLUDED.position,
				name_en = EXCLUDED.name_en,
				name_ar = EXCLUDED.name_ar,
				description_en = EXCLUDED.description_en,
				description_ar = EXCLUDED.description_ar`,
			c.ID, ci, c.Name.EN, c.Name.AR, c.Description.EN, c.Description.AR,
		)
		if err != nil {
			return errors.Wrapf(err, "insert category %s", c.ID)
		}

		for ii, it := range c.Items {
			ingredients, err := json.Marshal(it.Ingredients)
			if err != nil {
				return errors.Wrapf(err, "marshal ingredients for %s", it.ID)
			}
			_, err = pool.Exec(ctx, `
				INSERT INTO menu_items (id, category_id, position, name_en, name_ar,
					description_en, description_ar, price, discount, ingredients, image, most_ordered)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (id) DO UPDATE SET
					category_id = EXCLUDED.category_id,
					position = EXCLUDED.position,
					name_en = EXCLUDED.name_en,
					name_ar = EXCLUDED.name_ar,
					description_en = EXCLUDED.description_en,
					description_ar = EXCLUDED.description_ar,
					price = EXCLUDED.price,
					discount = EXCLUDED.discount,
					ingredients = EXCLUDED.ingredients,
					image = EXCLUDED.image,
					most_ordered = EXCLUDED.most_ordered`,
				it.ID, c.ID, ii, it.Name.EN, it.Name.AR,
				it.Description.EN, it.Description.AR, it.Price, it.Discount,
				ingredients, it.Image, it.MostOrdered,
			)
			if err != nil {
				return errors.Wrapf(err, "insert item %s", it.ID)
			}
		}
		slog.Info("seeded category", slog.String("id", c.ID), slog.Int("items", len(c.Items)))
	}
	return nil
}

func seedOffers(ctx context.Context, pool *pgxpool.Pool, offers []offerJSON) error {
	for i, o := range offers {
		_, err := pool.Exec(ctx, `
			INSERT INTO offers (id, position, title_en, title_ar, description_en, description_ar, image)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				position = EXCLUDED.position,
				title_en = EXCLUDED.title_en,
				title_ar = EXCLUDED.title_ar,
				description_en = EXCLUDED.description_en,
				description_ar = EXCLUDED.description_ar,
				image = EXCLUDED.image`,
			o.ID, i, o.Title.EN, o.Title.AR, o.Description.EN, o.Description.AR, o.Image,
		)
		if err != nil {
			return errors.Wrapf(err, "insert offer %s", o.ID)
		}
	}
	slog.Info("seeded offers", slog.Int("count", len(offers)))
	return nil
}

func seedDemoUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if password == "" {
		return errors.New("demo password is required when a demo email is set")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash demo password")
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, language, notifications, created_at)
		VALUES ($1, lower($2), $3, 'Demo User', 'ar', TRUE, now())
		ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), email, string(hash),
	)
	if err != nil {
		return errors.Wrap(err, "insert demo user")
	}
	slog.Info("seeded demo user", slog.String("email", strings.ToLower(email)))
	return nil
}
