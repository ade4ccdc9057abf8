package mirror

import (
	"context"

	sheetsapi "google.golang.org/api/sheets/v4"

	"TapTrack/config"
	"TapTrack/storage/sheets"
)

// googleValues 把 Sheets values API 适配到 ValuesAPI
type googleValues struct {
	svc     *sheetsapi.SpreadsheetsValuesService
	sheetID string
}

// NewGoogle 基于共享的 Sheets 句柄构造镜像访问层
func NewGoogle() *Mirror {
	values := &googleValues{
		svc:     sheets.Values(),
		sheetID: config.Cfg.GoogleSheetID,
	}
	return New(values, config.Cfg.GoogleSheetName)
}

func (g *googleValues) Get(ctx context.Context, rangeA1 string) ([][]interface{}, error) {
	resp, err := g.svc.Get(g.sheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (g *googleValues) Update(ctx context.Context, rangeA1 string, values [][]interface{}) error {
	_, err := g.svc.Update(g.sheetID, rangeA1, &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

func (g *googleValues) Append(ctx context.Context, rangeA1 string, values [][]interface{}) error {
	_, err := g.svc.Append(g.sheetID, rangeA1, &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

func (g *googleValues) Clear(ctx context.Context, rangeA1 string) error {
	_, err := g.svc.Clear(g.sheetID, rangeA1, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}
