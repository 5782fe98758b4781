package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const schema = `
create extension if not exists pgcrypto;

create table if not exists users (
    id uuid primary key default gen_random_uuid(),
    name text not null,
    email text not null unique,
    password_hash text not null,
    role text not null default 'user' check (role in ('user', 'admin')),
    avatar text not null default '',
    reset_password_token text,
    reset_password_expires timestamptz,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);

create table if not exists campaigns (
    id uuid primary key default gen_random_uuid(),
    title text not null,
    description text not null,
    short_description text not null,
    goal numeric(12,2) not null check (goal >= 0),
    raised numeric(12,2) not null default 0 check (raised >= 0),
    category text not null,
    image text not null,
    location text not null,
    creator_id uuid not null references users (id),
    status text not null default 'pending' check (status in ('pending', 'approved', 'rejected')),
    participants integer not null default 0,
    shares integer not null default 0,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);

create table if not exists businesses (
    id uuid primary key default gen_random_uuid(),
    business_name text not null,
    description text not null,
    logo text not null,
    website text,
    location text not null,
    owner_id uuid not null references users (id),
    status text not null default 'pending' check (status in ('pending', 'approved', 'rejected')),
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);

create table if not exists donations (
    id uuid primary key default gen_random_uuid(),
    campaign_id uuid not null references campaigns (id),
    user_id uuid not null references users (id),
    amount numeric(12,2) not null check (amount >= 1),
    display_name text not null,
    message text,
    created_at timestamptz not null default now()
);

create index if not exists donations_campaign_idx on donations (campaign_id, created_at desc);

create table if not exists categories (
    id uuid primary key default gen_random_uuid(),
    name text not null,
    slug text not null unique,
    icon text not null,
    created_at timestamptz not null default now()
);
`

type seedCategory struct {
	name string
	slug string
	icon string
}

var starterCategories = []seedCategory{
	{"Environment", "environment", "leaf"},
	{"Education", "education", "book-open"},
	{"Health", "health", "heart"},
	{"Community", "community", "users"},
	{"Animal Welfare", "animal-welfare", "paw-print"},
}

func main() {
	var (
		schemaFlag     bool
		adminFlag      bool
		categoriesFlag bool
		adminEmail     string
		adminPassword  string
		adminName      string
	)

	flag.BoolVar(&schemaFlag, "schema", false, "create tables and indexes")
	flag.BoolVar(&adminFlag, "admin", false, "create the admin user when missing")
	flag.BoolVar(&categoriesFlag, "categories", false, "upsert the starter categories")
	flag.StringVar(&adminEmail, "admin-email", "admin@example.com", "admin account email")
	flag.StringVar(&adminPassword, "admin-password", "", "admin account password")
	flag.StringVar(&adminName, "admin-name", "Admin", "admin account display name")
	flag.Parse()

	if !schemaFlag && !adminFlag && !categoriesFlag {
		exitWithError(errors.New("nothing to do: pass at least one of -schema, -admin, -categories"))
	}

	_ = godotenv.Load()
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		exitWithError(fmt.Errorf("open database: %w", err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		exitWithError(fmt.Errorf("ping database: %w", err))
	}

	if schemaFlag {
		if _, err := db.Exec(schema); err != nil {
			exitWithError(fmt.Errorf("apply schema: %w", err))
		}
		fmt.Println("schema applied")
	}

	if adminFlag {
		if adminPassword == "" {
			exitWithError(errors.New("-admin-password is required with -admin"))
		}
		created, err := seedAdmin(db, adminName, adminEmail, adminPassword)
		if err != nil {
			exitWithError(fmt.Errorf("seed admin: %w", err))
		}
		if created {
			fmt.Printf("admin user %s created\n", adminEmail)
		} else {
			fmt.Printf("admin user %s already exists, skipped\n", adminEmail)
		}
	}

	if categoriesFlag {
		if err := seedCategories(db); err != nil {
			exitWithError(fmt.Errorf("seed categories: %w", err))
		}
		fmt.Printf("%d categories upserted\n", len(starterCategories))
	}
}

func seedAdmin(db *sql.DB, name, email, password string) (bool, error) {
	var existing string
	err := db.QueryRow(`select id from users where email = $1`, email).Scan(&existing)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	_, err = db.Exec(
		`insert into users (name, email, password_hash, role) values ($1, $2, $3, 'admin')`,
		name, email, string(hash),
	)
	return err == nil, err
}

func seedCategories(db *sql.DB) error {
	for _, c := range starterCategories {
		_, err := db.Exec(
			`insert into categories (name, slug, icon) values ($1, $2, $3)
			 on conflict (slug) do update set name = excluded.name, icon = excluded.icon`,
			c.name, c.slug, c.icon,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
