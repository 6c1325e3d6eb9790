// Package vision はGoogle Cloud Vision APIを使用したラベリングシグナル取得クライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"snaptrack_backend/internal/feature/fooddetection/domain"
	"snaptrack_backend/internal/feature/fooddetection/domain/entity"
	"snaptrack_backend/internal/feature/fooddetection/usecase"
)

const providerName = "vision"

// featureRequests は1回のバッチで送るシグナル種別です。レスポンスも同じ順で返ります。
var featureRequests = []visionpb.Feature_Type{
	visionpb.Feature_WEB_DETECTION,
	visionpb.Feature_OBJECT_LOCALIZATION,
	visionpb.Feature_LABEL_DETECTION,
}

// VisionSignalSource はGoogle Cloud Vision APIを使用してラベリングシグナルを取得します。
type VisionSignalSource struct {
	client *gvision.ImageAnnotatorClient
}

// VisionSignalSourceがSignalSourceを実装していることをコンパイル時に検証します。
var _ usecase.SignalSource = (*VisionSignalSource)(nil)

// NewVisionSignalSource はADCを使用してVisionSignalSourceの新しいインスタンスを生成します。
func NewVisionSignalSource(ctx context.Context) (*VisionSignalSource, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionSignalSource{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionSignalSource) Close() error {
	return v.client.Close()
}

// FetchSignals は画像に対してweb検出・物体検出・ラベル検出を1回のバッチで実行します。
// シグナルごとのエラーはSignalResponse.Errorに格納され、正規化時に判定されます。
func (v *VisionSignalSource) FetchSignals(ctx context.Context, imageData []byte) (*entity.SignalSet, error) {
	resp, err := v.client.BatchAnnotateImages(ctx, buildRequest(imageData))
	if err != nil {
		return nil, domain.NewProviderError(providerName, domain.ErrProviderCallFailed, err)
	}
	return toSignalSet(resp.GetResponses())
}

// buildRequest はシグナル種別ごとに1つのAnnotateImageRequestを持つバッチリクエストを組み立てます。
func buildRequest(imageData []byte) *visionpb.BatchAnnotateImagesRequest {
	img := &visionpb.Image{Content: imageData}
	reqs := make([]*visionpb.AnnotateImageRequest, 0, len(featureRequests))
	for _, f := range featureRequests {
		reqs = append(reqs, &visionpb.AnnotateImageRequest{
			Image:    img,
			Features: []*visionpb.Feature{{Type: f}},
		})
	}
	return &visionpb.BatchAnnotateImagesRequest{Requests: reqs}
}

// toSignalSet はバッチレスポンスをドメインのSignalSetに変換します。
func toSignalSet(responses []*visionpb.AnnotateImageResponse) (*entity.SignalSet, error) {
	if len(responses) != len(featureRequests) {
		return nil, domain.NewProviderError(providerName, domain.ErrProviderResponseError,
			fmt.Errorf("expected %d responses, got %d", len(featureRequests), len(responses)))
	}
	web, objects, labels := responses[0], responses[1], responses[2]

	set := &entity.SignalSet{
		BestGuess:   entity.SignalResponse{Type: entity.SignalWebBestGuess, Error: errorMessage(web)},
		WebEntities: entity.SignalResponse{Type: entity.SignalWebEntity, Error: errorMessage(web)},
		Objects:     entity.SignalResponse{Type: entity.SignalObject, Error: errorMessage(objects)},
		Labels:      entity.SignalResponse{Type: entity.SignalLabel, Error: errorMessage(labels)},
	}

	wd := web.GetWebDetection()
	for _, l := range wd.GetBestGuessLabels() {
		set.BestGuess.Labels = append(set.BestGuess.Labels, entity.RawLabel{Text: l.GetLabel()})
	}
	for _, e := range wd.GetWebEntities() {
		set.WebEntities.Labels = append(set.WebEntities.Labels, entity.RawLabel{Text: e.GetDescription(), Score: e.GetScore()})
	}
	for _, o := range objects.GetLocalizedObjectAnnotations() {
		set.Objects.Labels = append(set.Objects.Labels, entity.RawLabel{Text: o.GetName(), Score: o.GetScore()})
	}
	for _, l := range labels.GetLabelAnnotations() {
		set.Labels.Labels = append(set.Labels.Labels, entity.RawLabel{Text: l.GetDescription(), Score: l.GetScore()})
	}
	return set, nil
}

func errorMessage(r *visionpb.AnnotateImageResponse) string {
	st := r.GetError()
	switch {
	case st == nil:
		return ""
	case st.GetMessage() != "":
		return st.GetMessage()
	case st.GetCode() != 0:
		return fmt.Sprintf("status code %d", st.GetCode())
	default:
		return ""
	}
}
