package config

// 窗口与舞台布局常量
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 1280
	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 720

	// StageWidthRatio 舞台宽度占屏幕宽度的比例
	StageWidthRatio = 0.82
	// StageMaxHeightRatio 舞台高度最多占屏幕高度的比例
	StageMaxHeightRatio = 0.9
	// StageAspectW / StageAspectH 舞台宽高比 16:9
	StageAspectW = 16.0
	StageAspectH = 9.0

	StageBorderWidth  = 2.0
	StageCornerRadius = 22.0
	StageFillAlpha    = 0.65

	// ItemMaxWidthRatio 单条祝福最大宽度占舞台宽度的比例
	ItemMaxWidthRatio = 0.45
	// ItemLineHeightEm 行高（em）
	ItemLineHeightEm = 1.5
	// ItemGlowRadius 文字光晕半径（像素）
	ItemGlowRadius = 8.0
)

// 背景径向渐变与舞台颜色
const (
	BackdropInnerHex  = "#000000"
	BackdropOuterHex  = "#020202"
	BackdropInnerStop = 0.2
	BackdropOuterStop = 0.8
	StageBorderHex    = "#222222"
)

// StageRect 舞台在屏幕上的矩形
type StageRect struct {
	X, Y, W, H float64
}

// StageBounds 根据屏幕尺寸计算舞台矩形
// 宽度取屏幕宽度的 82%，保持 16:9，高度超出时按高度收缩，居中放置
func StageBounds(screenW, screenH int) StageRect {
	w := float64(screenW) * StageWidthRatio
	h := w * StageAspectH / StageAspectW

	maxH := float64(screenH) * StageMaxHeightRatio
	if h > maxH {
		h = maxH
		w = h * StageAspectW / StageAspectH
	}

	return StageRect{
		X: (float64(screenW) - w) / 2,
		Y: (float64(screenH) - h) / 2,
		W: w,
		H: h,
	}
}
