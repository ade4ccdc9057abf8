package storage

import (
	"context"

	"TapTrack/storage/database"
	"TapTrack/storage/redis"
	"TapTrack/storage/sheets"
)

//统一 init storage 层

func Init(ctx context.Context) error {
	if err := database.Init(); err != nil {
		return err
	}

	if err := redis.Init(); err != nil {
		return err
	}

	if err := sheets.Init(ctx); err != nil {
		return err
	}

	return nil
}
