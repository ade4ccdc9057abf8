package sheets

import (
	"context"
	"strings"
	"sync"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"TapTrack/config"
)

// 镜像表是一个共享的长生命周期句柄，所有组件读写同一个 service

var (
	svc  *sheetsapi.Service
	once sync.Once
	err  error
)

func Init(ctx context.Context) error {
	once.Do(func() {
		key := config.Cfg.GoogleServiceKey

		opts := []option.ClientOption{
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		}

		// 支持内联 JSON 或密钥文件路径
		if strings.HasPrefix(strings.TrimSpace(key), "{") {
			opts = append(opts, option.WithCredentialsJSON([]byte(key)))
		} else {
			opts = append(opts, option.WithCredentialsFile(key))
		}

		svc, err = sheetsapi.NewService(ctx, opts...)
	})

	return err
}

func Service() *sheetsapi.Service {
	if svc == nil {
		panic("Sheets service not init")
	}
	return svc
}

// Values 返回表格值操作入口，镜像层只依赖这一部分
func Values() *sheetsapi.SpreadsheetsValuesService {
	return Service().Spreadsheets.Values
}
