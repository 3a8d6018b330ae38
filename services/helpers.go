package services

import (
	"log"
	"strconv"
)

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func logQueueMiss(err error) {
	log.Printf("queue: flagged revision not mirrored to moderation queue: %v", err)
}
