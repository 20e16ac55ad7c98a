// backup-rotator copies new database backups into an archive directory and
// thins the archive with a tiered retention policy.
//
// Retention policy:
//  1. Keep ALL files newer than --keep-all days (default: 1 day)
//  2. Keep 1 per DAY for files newer than --keep-daily days (default: 7 days)
//  3. Keep 1 per WEEK for files newer than --keep-weekly days (default: 30 days)
//  4. Keep 1 per MONTH for all files older than --keep-weekly days
//
// Usage:
//
//	# Basic usage with default thresholds (1/7/30 days)
//	backup-rotator run -s ./backups -d ~/Dropbox/db-backups
//
//	# Dry run to see what would be deleted
//	backup-rotator run -s ./backups -d ~/Dropbox/db-backups --dry-run
//
//	# Custom thresholds
//	backup-rotator run -s ./backups -d /mnt/archive --keep-all 2 --keep-daily 14 --keep-weekly 60
//
//	# Keep running, syncing whenever a new backup lands and every night at 3
//	backup-rotator watch -s ./backups -d /mnt/archive --schedule "0 3 * * *"
package main

import "os"

func main() {
	os.Exit(Execute(os.Args[1:]))
}
