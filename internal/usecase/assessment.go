package usecase

import (
	"context"
	"image"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deanrcg/skincheck/internal/imaging"
	"github.com/deanrcg/skincheck/internal/logging"
	"github.com/deanrcg/skincheck/internal/risk"
	"github.com/deanrcg/skincheck/internal/vision"
)

// ReportGenerator renders the downloadable assessment report.
type ReportGenerator interface {
	Generate(img image.Image, riskLabel, explanation string) (string, error)
}

// Result carries the three user-facing outputs of one assessment.
type Result struct {
	RiskLevel   string
	Explanation string
	ReportPath  string
}

// AssessmentUseCase runs the upload-to-report pipeline: normalize the
// image, ask the vision model for an assessment, bucket the reply into a
// risk level, render the PDF.
type AssessmentUseCase struct {
	assessor vision.Assessor
	reports  ReportGenerator
	logger   *zap.Logger
}

// NewAssessmentUseCase constructs a new use case instance.
func NewAssessmentUseCase(assessor vision.Assessor, reports ReportGenerator, logger *zap.Logger) *AssessmentUseCase {
	return &AssessmentUseCase{
		assessor: assessor,
		reports:  reports,
		logger:   logger.Named("assessment_usecase"),
	}
}

// Assess processes one uploaded image end to end. A report failure is not
// fatal: the risk label and explanation are still returned, with an empty
// report path.
func (uc *AssessmentUseCase) Assess(ctx context.Context, imageBytes []byte) (*Result, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(uc.logger, "usecase.assess_image", requestID)

	decoded, err := imaging.Decode(imageBytes)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.decode_image", requestID, err)
		opLogger.Error("failed to decode uploaded image", zap.Error(wrapped))
		return nil, wrapped
	}

	normalized, err := imaging.Normalize(decoded)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.normalize_image", requestID, err)
		opLogger.Error("failed to normalize image", zap.Error(wrapped))
		return nil, wrapped
	}

	jpegData, err := imaging.EncodeJPEG(normalized, imaging.JPEGQuality)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.encode_image", requestID, err)
		opLogger.Error("failed to encode image", zap.Error(wrapped))
		return nil, wrapped
	}
	opLogger.Info("image normalized",
		zap.Int("width", normalized.Bounds().Dx()),
		zap.Int("height", normalized.Bounds().Dy()),
		zap.Int("jpeg_bytes", len(jpegData)))

	reply, err := uc.assessor.Assess(ctx, imaging.DataURI(jpegData))
	if err != nil {
		wrapped := logging.NewOperationError("usecase.model_assess", requestID, err)
		opLogger.Error("model assessment failed", zap.Error(wrapped))
		return nil, wrapped
	}

	level := risk.Classify(reply)
	opLogger.Info("risk level determined", zap.String("risk_level", level.Label()))

	reportPath, err := uc.reports.Generate(normalized, level.Label(), reply)
	if err != nil {
		// The textual outputs still succeed without the PDF.
		opLogger.Error("report generation failed",
			zap.Error(logging.NewOperationError("usecase.generate_report", requestID, err)))
		reportPath = ""
	}

	return &Result{
		RiskLevel:   level.Label(),
		Explanation: reply,
		ReportPath:  reportPath,
	}, nil
}
