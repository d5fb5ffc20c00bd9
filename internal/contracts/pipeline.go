package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 에러, 감사 레코드에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3 → S4 → S5
//   Table  Dataset  Model  Backtest  Selection  Audit

// Stage represents a pipeline stage
type Stage string

const (
	// StageTable S0: 피처 테이블 적재
	// 책임: CSV 읽기, 결측 셀 표시, 피처 카탈로그 검증
	// 위치: internal/s0_data/
	StageTable Stage = "S0_TABLE"

	// StageDataset S1: 라벨링 및 학습 데이터셋 구성
	// 책임: 결측 행 제거, 피처 선택, outperformance 라벨
	// 위치: internal/s1_dataset/
	StageDataset Stage = "S1_DATASET"

	// StageModel S2: 모델 학습/평가
	// 책임: 분할, 스케일링, 하이퍼파라미터 탐색, 분류 지표
	// 위치: internal/s2_model/
	StageModel Stage = "S2_MODEL"

	// StageBacktest S3: 백테스트 요약
	// 책임: 양성 예측 종목의 평균 수익률 vs 벤치마크
	// 위치: internal/backtest/
	StageBacktest Stage = "S3_BACKTEST"

	// StageSelection S4: 현재 데이터 종목 선정
	// 위치: internal/selection/
	StageSelection Stage = "S4_SELECTION"

	// StageAudit S5: 실행 기록
	// 위치: internal/audit/
	StageAudit Stage = "S5_AUDIT"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageTable:
		return "S0"
	case StageDataset:
		return "S1"
	case StageModel:
		return "S2"
	case StageBacktest:
		return "S3"
	case StageSelection:
		return "S4"
	case StageAudit:
		return "S5"
	default:
		return "UNKNOWN"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageTable,
		StageDataset,
		StageModel,
		StageBacktest,
		StageSelection,
		StageAudit,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}
