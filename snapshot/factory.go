package snapshot

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Open выбирает драйвер хранилища снимков по переменным окружения:
//
//	SNAPSHOT_DRIVER: fs|s3|memory (по умолчанию fs)
//	SNAPSHOT_FS_ROOT: корень при driver=fs (по умолчанию ./snapshots)
//	SNAPSHOT_BUCKET, SNAPSHOT_REGION, SNAPSHOT_ENDPOINT,
//	SNAPSHOT_PATH_STYLE: параметры при driver=s3
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("SNAPSHOT_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}

	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystemStore(os.Getenv("SNAPSHOT_FS_ROOT"))
	case DriverS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    os.Getenv("SNAPSHOT_BUCKET"),
			Region:    os.Getenv("SNAPSHOT_REGION"),
			Endpoint:  os.Getenv("SNAPSHOT_ENDPOINT"),
			PathStyle: strings.EqualFold(os.Getenv("SNAPSHOT_PATH_STYLE"), "true"),
		})
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", driver)
	}
}
