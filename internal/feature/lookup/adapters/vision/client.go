// Package vision はGoogle Cloud Vision APIを使用した画像注釈クライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"snapshop_backend/internal/feature/lookup/domain/entity"
	"snapshop_backend/internal/feature/lookup/usecase"
)

// Capabilities は起動時に決定する有効な検出機能の一覧です。
// 無効な機能は呼び出さず、空の結果として扱います。
type Capabilities struct {
	Logos           bool
	Labels          bool
	Text            bool
	WebEntities     bool
	Objects         bool
	ImageProperties bool
}

// imageAnnotator はテストで差し替え可能なVision APIクライアントの最小インターフェースです。
type imageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
}

// VisionAnnotator はGoogle Cloud Vision APIを使用して画像を注釈します。
type VisionAnnotator struct {
	client     imageAnnotator
	closer     func() error
	caps       Capabilities
	maxResults int32
}

// VisionAnnotatorがAnnotatorを実装していることをコンパイル時に検証します。
var _ usecase.Annotator = (*VisionAnnotator)(nil)

// NewVisionAnnotator はVisionAnnotatorの新しいインスタンスを生成します。
// opts が空の場合はADCを使用します。
func NewVisionAnnotator(ctx context.Context, caps Capabilities, opts ...option.ClientOption) (*VisionAnnotator, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionAnnotator{client: client, closer: client.Close, caps: caps, maxResults: 10}, nil
}

// WithMaxResults は検出機能ごとの最大結果数を設定します。0以下の場合は変更しません。
func (v *VisionAnnotator) WithMaxResults(n int32) *VisionAnnotator {
	if n > 0 {
		v.maxResults = n
	}
	return v
}

// Close はVision APIクライアントを解放します。
func (v *VisionAnnotator) Close() error {
	if v.closer == nil {
		return nil
	}
	return v.closer()
}

// Annotate は有効な検出機能ごとにリクエストを並行して発行し、結果を縮約します。
// いずれかの呼び出しが失敗した場合はリクエスト全体を失敗とします。
func (v *VisionAnnotator) Annotate(ctx context.Context, imageData []byte) (entity.Annotations, error) {
	var out entity.Annotations
	var logoRes, labelRes, textRes, webRes, objRes, propRes *visionpb.AnnotateImageResponse

	g, gctx := errgroup.WithContext(ctx)
	v.detect(gctx, g, v.caps.Logos, visionpb.Feature_LOGO_DETECTION, imageData, &logoRes)
	v.detect(gctx, g, v.caps.Labels, visionpb.Feature_LABEL_DETECTION, imageData, &labelRes)
	v.detect(gctx, g, v.caps.Text, visionpb.Feature_TEXT_DETECTION, imageData, &textRes)
	v.detect(gctx, g, v.caps.WebEntities, visionpb.Feature_WEB_DETECTION, imageData, &webRes)
	v.detect(gctx, g, v.caps.Objects, visionpb.Feature_OBJECT_LOCALIZATION, imageData, &objRes)
	v.detect(gctx, g, v.caps.ImageProperties, visionpb.Feature_IMAGE_PROPERTIES, imageData, &propRes)
	if err := g.Wait(); err != nil {
		return entity.Annotations{}, err
	}

	for _, a := range logoRes.GetLogoAnnotations() {
		out.Logos = appendText(out.Logos, a.GetDescription())
	}
	for _, a := range labelRes.GetLabelAnnotations() {
		out.Labels = appendText(out.Labels, a.GetDescription())
	}
	// 先頭要素は全文、以降は単語単位のため全文のみ採用
	if ta := textRes.GetTextAnnotations(); len(ta) > 0 {
		out.Texts = appendText(out.Texts, ta[0].GetDescription())
	}
	for _, e := range webRes.GetWebDetection().GetWebEntities() {
		out.WebEntities = appendText(out.WebEntities, e.GetDescription())
	}
	for _, o := range objRes.GetLocalizedObjectAnnotations() {
		out.Objects = appendText(out.Objects, o.GetName())
	}
	for _, c := range propRes.GetImagePropertiesAnnotation().GetDominantColors().GetColors() {
		out.DominantColors = append(out.DominantColors, entity.DominantColor{
			R:     float64(c.GetColor().GetRed()),
			G:     float64(c.GetColor().GetGreen()),
			B:     float64(c.GetColor().GetBlue()),
			Score: float64(c.GetScore()),
		})
	}
	return out, nil
}

// detect は機能が有効な場合のみ単一機能のリクエストを errgroup に登録します。
func (v *VisionAnnotator) detect(ctx context.Context, g *errgroup.Group, enabled bool, feature visionpb.Feature_Type, imageData []byte, dst **visionpb.AnnotateImageResponse) {
	if !enabled {
		return
	}
	g.Go(func() error {
		res, err := v.annotateOne(ctx, feature, imageData)
		if err != nil {
			return err
		}
		*dst = res
		return nil
	})
}

func (v *VisionAnnotator) annotateOne(ctx context.Context, feature visionpb.Feature_Type, imageData []byte) (*visionpb.AnnotateImageResponse, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: feature, MaxResults: v.maxResults},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed (%s): %w", feature, err)
	}
	if len(resp.GetResponses()) == 0 {
		return nil, nil
	}
	if e := resp.Responses[0].GetError(); e != nil {
		return nil, fmt.Errorf("vision API error (%s): %s", feature, e.GetMessage())
	}
	return resp.Responses[0], nil
}

func appendText(dst []string, s string) []string {
	if s == "" {
		return dst
	}
	return append(dst, s)
}
