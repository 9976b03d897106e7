package model

// EstimatorState は推定器（変換器・分類器）の学習状態を表す
type EstimatorState int

const (
	// NotFitted は未学習の状態。Fit前のTransform/Predictは
	// NotFittedErrorを返す
	NotFitted EstimatorState = iota
	// Fitted は学習済みの状態
	Fitted
)

// BaseEstimator は前処理変換器の基底となる構造体。
// 分類器は並行アクセスを想定するためStateManagerを使う。
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted は学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted は学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset は未学習状態に戻す。fold毎のクローン再学習で使用される
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
