// Command migrate manages the database schema and seeds the menu.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/alqabandi/burgerhouse/internal/config"
)

const versionTimeFormat = "20060102150405"

func main() {
	rootCmd := &cobra.Command{Use: "migrate"}
	rootCmd.AddCommand(
		createMigrationCommand(),
		migrateUpCommand(),
		migrateDownCommand(),
		seedCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func createMigrationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-create [name]",
		Short: "create empty up/down SQL migration files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := time.Now().Format(versionTimeFormat)
			up := fmt.Sprintf("migrations/%s_%s.up.sql", version, args[0])
			down := fmt.Sprintf("migrations/%s_%s.down.sql", version, args[0])

			if err := os.WriteFile(up, []byte{}, 0644); err != nil {
				return err
			}
			if err := os.WriteFile(down, []byte{}, 0644); err != nil {
				return err
			}
			fmt.Println("Created SQL up script:", up)
			fmt.Println("Created SQL down script:", down)
			return nil
		},
	}
}

func migrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-up",
		Short: "apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			if err := m.Up(); err != nil {
				if errors.Is(err, migrate.ErrNoChange) {
					fmt.Println("No change in migration")
					return nil
				}
				return err
			}
			fmt.Println("Migrated up")
			return nil
		},
	}
}

func migrateDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-down",
		Short: "roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			if err := m.Steps(-1); err != nil {
				return err
			}
			fmt.Println("Rolled back one migration")
			return nil
		},
	}
}

func newMigrator() (*migrate.Migrate, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	return migrate.New("file://migrations", cfg.PostgresURL)
}

type seedMeal struct {
	slug, nameEN, nameAR, descEN, descAR, catEN, catAR string
	priceFils                                          int64
	imageURL                                           string
}

var seedMeals = []seedMeal{
	{
		slug:      "classic-smash-beef-burger",
		nameEN:    "Classic Smash Beef Burger",
		nameAR:    "برغر بيف سماش كلاسيك",
		descEN:    "Double smashed beef patties, American cheese, house sauce, pickles.",
		descAR:    "قطعتا لحم بقرية سماش مع جبنة أمريكية وصوص خاص ومخلل.",
		catEN:     "Beef Burgers",
		catAR:     "برغر لحم",
		priceFils: 11500,
		imageURL:  "https://images.unsplash.com/photo-1550547660-d9450f859349?auto=format&fit=crop&w=800&q=80",
	},
	{
		slug:      "double-cheddar-stack",
		nameEN:    "Double Cheddar Stack",
		nameAR:    "دابل تشيدر ستاك",
		descEN:    "Two juicy beef patties, sharp cheddar, caramelized onions, buttered brioche.",
		descAR:    "قطعتان من اللحم البقري العصير مع تشيدر قوي وبصل كاراميل على خبز بريوش.",
		catEN:     "Beef Burgers",
		catAR:     "برغر لحم",
		priceFils: 12750,
		imageURL:  "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?auto=format&fit=crop&w=800&q=80",
	},
	{
		slug:      "smokehouse-bbq-burger",
		nameEN:    "Smokehouse BBQ Burger",
		nameAR:    "برغر سموك هاوس باربكيو",
		descEN:    "Charred beef patty, smoky BBQ glaze, crispy onions, aged cheddar.",
		descAR:    "برغر لحم مشوي مع صلصة باربكيو مدخنة وبصل مقرمش وتشيدر معتق.",
		catEN:     "Beef Burgers",
		catAR:     "برغر لحم",
		priceFils: 12950,
		imageURL:  "https://images.unsplash.com/photo-1551782450-a2132b4ba21d?auto=format&fit=crop&w=800&q=80",
	},
	{
		slug:      "jalapeno-crunch-burger",
		nameEN:    "Jalapeño Crunch Burger",
		nameAR:    "برغر هالبينو كرنش",
		descEN:    "Pepper jack cheese, crispy jalapeños, chipotle mayo, smashed beef patty.",
		descAR:    "جبن بيبر جاك مع هالبينو مقرمش ومايونيز شيبوتلي ولحم بقري سماش.",
		catEN:     "Beef Burgers",
		catAR:     "برغر لحم",
		priceFils: 12250,
		imageURL:  "https://images.unsplash.com/photo-1612874472278-5c1f9c67228c?auto=format&fit=crop&w=800&q=80",
	},
	{
		slug:      "truffle-mushroom-swiss",
		nameEN:    "Truffle Mushroom Swiss",
		nameAR:    "برغر كمأة بعيش الغراب وسويس",
		descEN:    "Seared beef, truffle aioli, sautéed mushrooms, melted Swiss cheese.",
		descAR:    "لحم بقر محمر مع آيولي الكمأة وفطر سوتيه وجبنة سويسرية ذائبة.",
		catEN:     "Beef Burgers",
		catAR:     "برغر لحم",
		priceFils: 13500,
		imageURL:  "https://images.unsplash.com/photo-1606756790138-261c9cde4000?auto=format&fit=crop&w=800&q=80",
	},
	{
		slug:      "blue-cheese-onion-burger",
		nameEN:    "Blue Cheese & Onion Burger",
		nameAR:    "برغر بلو تشيز والبصل",
		descEN:    "Creamy blue cheese, caramelized onions, arugula, prime beef patty.",
		descAR:    "جبن أزرق كريمي مع بصل كاراميل وجرجير على قرص لحم بقري فاخر.",
		catEN:     "Beef Burgers",
		catAR:     "برغر لحم",
		priceFils: 13000,
		imageURL:  "https://images.unsplash.com/photo-1504674900247-0877df9cc836?auto=format&fit=crop&w=800&q=80",
	},
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "insert the menu, skipping meals that already exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := pgxpool.New(ctx, cfg.PostgresURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			for _, m := range seedMeals {
				_, err := pool.Exec(ctx, `
					INSERT INTO meals (slug, name_en, name_ar, description_en, description_ar,
						category_en, category_ar, price_fils, image_url, is_active)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
					ON CONFLICT (slug) DO NOTHING`,
					m.slug, m.nameEN, m.nameAR, m.descEN, m.descAR,
					m.catEN, m.catAR, m.priceFils, m.imageURL)
				if err != nil {
					return fmt.Errorf("seed %s: %w", m.slug, err)
				}
			}
			fmt.Printf("Seeded %d meals\n", len(seedMeals))
			return nil
		},
	}
}
