package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
)

// Extensions
//
// CREATE EXTENSION IF NOT EXISTS pgcrypto;
//
// Table Structure:
//
// CREATE TABLE IF NOT EXISTS companies (
// 	id UUID NOT NULL DEFAULT gen_random_uuid(),
// 	name VARCHAR(200) NOT NULL,
// 	slug VARCHAR(255),
// 	website VARCHAR(500),
// 	logo_url VARCHAR(500),
// 	description TEXT,
// 	twitter VARCHAR(255),
// 	linkedin VARCHAR(255),
// 	meta_fetched_at TIMESTAMPTZ,
// 	PRIMARY KEY(id)
// );
//
// CREATE TABLE IF NOT EXISTS locations (
// 	id UUID NOT NULL DEFAULT gen_random_uuid(),
// 	city VARCHAR(100) NOT NULL,
// 	area VARCHAR(100),
// 	PRIMARY KEY(id)
// );
//
// CREATE TABLE IF NOT EXISTS jobs (
// 	id UUID NOT NULL,
// 	title VARCHAR(200) NOT NULL,
// 	description TEXT,
// 	slug VARCHAR(255),
// 	company_id UUID NOT NULL REFERENCES companies(id),
// 	location_id UUID REFERENCES locations(id),
// 	job_type VARCHAR(50),
// 	pay_type VARCHAR(10),
// 	min_amount NUMERIC,
// 	max_amount NUMERIC,
// 	amount NUMERIC,
// 	pay_rate VARCHAR(50),
// 	requirements TEXT[],
// 	responsibilities TEXT[],
// 	status VARCHAR(20) DEFAULT 'active',
// 	posted_by UUID,
// 	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
// 	updated_at TIMESTAMPTZ,
// 	PRIMARY KEY(id)
// );
// CREATE INDEX jobs_created_at_idx ON jobs (created_at DESC);
//
// CREATE TABLE IF NOT EXISTS internships (
// 	id UUID NOT NULL,
// 	title VARCHAR(200) NOT NULL,
// 	description TEXT,
// 	slug VARCHAR(255),
// 	company_id UUID NOT NULL REFERENCES companies(id),
// 	location_id UUID REFERENCES locations(id),
// 	internship_type VARCHAR(50),
// 	stipend_type VARCHAR(10),
// 	min_amount NUMERIC,
// 	max_amount NUMERIC,
// 	amount NUMERIC,
// 	pay_rate VARCHAR(50),
// 	duration VARCHAR(50),
// 	requirements TEXT[],
// 	responsibilities TEXT[],
// 	application_deadline TIMESTAMPTZ,
// 	start_date TIMESTAMPTZ,
// 	end_date TIMESTAMPTZ,
// 	status VARCHAR(20) DEFAULT 'active',
// 	posted_by UUID,
// 	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
// 	updated_at TIMESTAMPTZ,
// 	PRIMARY KEY(id)
// );
// CREATE INDEX internships_created_at_idx ON internships (created_at DESC);
//
// CREATE TABLE IF NOT EXISTS applications (
// 	id UUID NOT NULL,
// 	listing_kind VARCHAR(20) NOT NULL,
// 	listing_id UUID NOT NULL,
// 	user_id UUID NOT NULL,
// 	applicant_name VARCHAR(200) NOT NULL,
// 	email VARCHAR(255) NOT NULL,
// 	phone VARCHAR(40),
// 	experience TEXT,
// 	education TEXT,
// 	skills TEXT[],
// 	resume_url VARCHAR(500),
// 	cover_letter TEXT,
// 	status VARCHAR(20) NOT NULL,
// 	created_at TIMESTAMPTZ NOT NULL,
// 	updated_at TIMESTAMPTZ NOT NULL,
// 	PRIMARY KEY(id),
// 	UNIQUE(listing_kind, listing_id, user_id)
// );
// CREATE INDEX applications_listing_idx ON applications (listing_kind, listing_id, created_at DESC);

func GetDbConn(databaseUser string, databasePassword string, databaseHost string, databasePort string, databaseName string, sslMode string) (*sql.DB, error) {
	databaseURL := fmt.Sprintf("postgres://%v:%v@%v:%v/%v?sslmode=%s",
		url.QueryEscape(databaseUser),
		url.QueryEscape(databasePassword),
		databaseHost,
		databasePort,
		databaseName,
		sslMode,
	)
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// CloseDbConn closes db conn
func CloseDbConn(conn *sql.DB) {
	conn.Close()
}
