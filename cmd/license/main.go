// Command license prints a signed license token for the scoreboard service.
//
//	LICENSE_SECRET_KEY=... license -billing lifetime
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Dosada05/pickup-scoreboard/middleware"
	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/joho/godotenv"
)

func main() {
	billing := flag.String("billing", string(models.BillingSubscribe), "billing type: limited, subscribe or lifetime")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime, 0 for no expiry")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("LICENSE_SECRET_KEY")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "LICENSE_SECRET_KEY is not set")
		os.Exit(1)
	}

	bt := models.ParseBillingType(*billing)
	if string(bt) != *billing {
		fmt.Fprintf(os.Stderr, "unknown billing type %q\n", *billing)
		os.Exit(2)
	}

	token, err := middleware.IssueLicense([]byte(secret), bt, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
