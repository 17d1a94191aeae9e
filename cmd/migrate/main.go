package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const schema = `
create extension if not exists pgcrypto;

create table if not exists assets (
  id          uuid primary key default gen_random_uuid(),
  filename    text not null,
  mime        text not null default '',
  kind        text not null default 'photo',
  storage_key text not null,
  bytes       bigint not null default 0,
  status      text not null default 'idle',
  title       text,
  description text,
  keywords    text,
  main_tag    text,
  category1   text,
  category2   text,
  created_at  timestamptz not null default now(),
  updated_at  timestamptz not null default now()
);

create index if not exists assets_created_at_idx on assets (created_at);

create table if not exists engine_settings (
  id           boolean primary key default true,
  engine       text not null default 'gemini',
  chat_api_key text,
  updated_at   timestamptz not null default now(),
  constraint engine_settings_singleton check (id)
);
`

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "ping database: %v\n", err)
		os.Exit(1)
	}
	if _, err := db.Exec(schema); err != nil {
		fmt.Fprintf(os.Stderr, "apply schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("schema applied")
}
