// Package writer mirrors the merged dataset into Postgres.
//
// Rows are upserted in batches into the daily_bars table:
//
//	CREATE TABLE daily_bars (
//	    ticker  TEXT             NOT NULL,
//	    date    DATE             NOT NULL,
//	    open    DOUBLE PRECISION NOT NULL,
//	    high    DOUBLE PRECISION NOT NULL,
//	    low     DOUBLE PRECISION NOT NULL,
//	    close   DOUBLE PRECISION NOT NULL,
//	    volume  BIGINT           NOT NULL,
//	    run_id  UUID             NOT NULL,
//	    PRIMARY KEY (ticker, date)
//	);
//
// ON CONFLICT DO UPDATE keeps the mirror converged on the latest run
// without requiring a truncate.
package writer
