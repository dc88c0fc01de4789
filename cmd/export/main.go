// Command export dumps the cats table as a file of INSERT statements, for
// seeding another database with the catalogue.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cat-gallery/internal/config"
	"github.com/iliyamo/cat-gallery/internal/database"
	"github.com/iliyamo/cat-gallery/internal/repository"
)

func main() {
	out := flag.String("o", "cats_data.sql", "output file")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cats, err := repository.NewCatRepo(db).List(ctx)
	if err != nil {
		log.Fatalf("query cats: %v", err)
	}
	log.Printf("found %d cats", len(cats))

	var b strings.Builder
	for _, cat := range cats {
		fmt.Fprintf(&b, "INSERT INTO cats (name, tag, description, img) VALUES (%s, %s, %s, %s);\n",
			quote(cat.Name), quote(cat.Tag), quote(cat.Description), quote(cat.Img))
	}

	if err := os.WriteFile(*out, []byte(b.String()), 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("export complete: %s", *out)
}

// quote produces a single-quoted MySQL string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `''`)
	return "'" + r.Replace(s) + "'"
}
