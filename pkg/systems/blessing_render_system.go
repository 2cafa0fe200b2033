package systems

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/gonewx/blessingwave/pkg/blessing"
	"github.com/gonewx/blessingwave/pkg/components"
	"github.com/gonewx/blessingwave/pkg/config"
	"github.com/gonewx/blessingwave/pkg/ecs"
	"github.com/gonewx/blessingwave/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
)

// FaceProvider 按像素大小提供字体
type FaceProvider interface {
	Face(sizePx float64) *text.GoTextFace
}

// glowOffsets 光晕采样方向（单位圆上的 8 个点）
var glowOffsets = func() [][2]float64 {
	out := make([][2]float64, 0, 8)
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		out = append(out, [2]float64{math.Cos(a), math.Sin(a)})
	}
	return out
}()

// BlessingRenderSystem 绘制背景、舞台和所有同屏祝福
type BlessingRenderSystem struct {
	entityManager *ecs.EntityManager
	live          LiveSource
	fonts         FaceProvider
	cfg           *config.WaveConfig
	keyframes     FloatKeyframes

	backdrop     *ebiten.Image
	backdropSize image.Point

	stageShape *ebiten.Image // 白色圆角矩形，用于填充和裁剪
	stageRing  *ebiten.Image // 边框
	itemsLayer *ebiten.Image
	stageSize  image.Point

	borderColor color.Color
}

// NewBlessingRenderSystem 创建渲染系统
func NewBlessingRenderSystem(em *ecs.EntityManager, live LiveSource, fonts FaceProvider, cfg *config.WaveConfig) *BlessingRenderSystem {
	border, err := colorful.Hex(config.StageBorderHex)
	if err != nil {
		border = colorful.Color{R: 0.13, G: 0.13, B: 0.13}
	}
	return &BlessingRenderSystem{
		entityManager: em,
		live:          live,
		fonts:         fonts,
		cfg:           cfg,
		keyframes:     FloatKeyframes{FadeInEnd: cfg.FadeInEnd, FadeOutStart: cfg.FadeOutStart},
		borderColor:   border,
	}
}

// Draw 绘制一帧
func (s *BlessingRenderSystem) Draw(screen *ebiten.Image, stage config.StageRect) {
	s.drawBackdrop(screen)

	if stage.W < 1 || stage.H < 1 {
		return
	}
	s.ensureStageImages(stage)

	// 舞台外发光 box-shadow: 0 0 50px rgba(255,255,255,0.08)
	for i := 5; i >= 1; i-- {
		grow := float64(i) * 10
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale((stage.W+grow*2)/stage.W, (stage.H+grow*2)/stage.H)
		op.GeoM.Translate(stage.X-grow, stage.Y-grow)
		op.ColorScale.ScaleAlpha(0.08 / 5)
		screen.DrawImage(s.stageShape, op)
	}

	// 舞台填充 rgba(0,0,0,0.65)
	fill := &ebiten.DrawImageOptions{}
	fill.GeoM.Translate(stage.X, stage.Y)
	fill.ColorScale.Scale(0, 0, 0, 1)
	fill.ColorScale.ScaleAlpha(config.StageFillAlpha)
	screen.DrawImage(s.stageShape, fill)

	// 条目画在舞台图层上，再用舞台形状裁剪
	s.itemsLayer.Clear()
	for _, id := range s.live.Live() {
		s.drawItem(s.itemsLayer, id, stage)
	}
	mask := &ebiten.DrawImageOptions{}
	mask.Blend = ebiten.BlendDestinationIn
	s.itemsLayer.DrawImage(s.stageShape, mask)

	layer := &ebiten.DrawImageOptions{}
	layer.GeoM.Translate(stage.X, stage.Y)
	screen.DrawImage(s.itemsLayer, layer)

	ring := &ebiten.DrawImageOptions{}
	ring.GeoM.Translate(stage.X, stage.Y)
	ring.ColorScale.ScaleWithColor(s.borderColor)
	screen.DrawImage(s.stageRing, ring)
}

// drawItem 绘制单个祝福条目
func (s *BlessingRenderSystem) drawItem(dst *ebiten.Image, id ecs.EntityID, stage config.StageRect) {
	content, ok := ecs.GetComponent[*components.BlessingComponent](s.entityManager, id)
	if !ok {
		return
	}
	motion, ok := ecs.GetComponent[*components.FloatMotionComponent](s.entityManager, id)
	if !ok {
		return
	}
	style, ok := ecs.GetComponent[*components.BlessingStyleComponent](s.entityManager, id)
	if !ok {
		return
	}
	lifecycle, ok := ecs.GetComponent[*components.LifecycleComponent](s.entityManager, id)
	if !ok || lifecycle.State == components.StateRemoved {
		return
	}

	frame := FloatFrameAt(lifecycle.Progress, lifecycle.State == components.StateAnimating, motion, s.keyframes)
	if frame.Opacity <= 0 || s.fonts == nil {
		return
	}

	sizePx := s.cfg.BaseFontPx * style.FontEm
	face := s.fonts.Face(sizePx)
	if face == nil {
		return
	}
	lineHeight := sizePx * config.ItemLineHeightEm

	lines := s.wrappedLines(content, face, sizePx, stage.W*config.ItemMaxWidthRatio)
	if len(lines) == 0 {
		return
	}
	body := strings.Join(lines, "\n")

	blockW, _ := text.Measure(body, face, lineHeight)
	blockH := lineHeight * float64(len(lines))

	// transform-origin 为块中心：先平移到中心，缩放、旋转，再放到 (x, y)
	var geo ebiten.GeoM
	geo.Translate(-blockW/2, -blockH/2)
	geo.Scale(frame.Scale, frame.Scale)
	geo.Rotate(frame.RotationDeg * math.Pi / 180)
	geo.Translate(frame.X+blockW/2, frame.Y+blockH/2)

	drawText := func(dx, dy, alpha float64) {
		op := &text.DrawOptions{}
		op.LayoutOptions.PrimaryAlign = text.AlignCenter
		op.LayoutOptions.LineSpacing = lineHeight
		op.GeoM.Translate(blockW/2+dx, (lineHeight-sizePx)/2+dy)
		op.GeoM.Concat(geo)
		op.ColorScale.ScaleWithColor(style.Color)
		op.ColorScale.ScaleAlpha(float32(alpha))
		text.Draw(dst, body, face, op)
	}

	// drop-shadow(0 0 8px currentColor) 的近似：多方向低透明度叠加
	for _, r := range []float64{config.ItemGlowRadius / 2, config.ItemGlowRadius / 4} {
		for _, o := range glowOffsets {
			drawText(o[0]*r, o[1]*r, frame.Opacity*0.06)
		}
	}
	drawText(0, 0, frame.Opacity)
}

// wrappedLines 返回按宽度二次换行后的行，结果缓存在组件上
func (s *BlessingRenderSystem) wrappedLines(content *components.BlessingComponent, face *text.GoTextFace, sizePx, maxWidth float64) []string {
	if content.WrappedLines != nil && content.WrappedForPx == sizePx {
		return content.WrappedLines
	}
	measure := func(str string) float64 {
		w, _ := text.Measure(str, face, 0)
		return w
	}
	content.WrappedLines = utils.WrapLines(blessing.Lines(content.Nodes), maxWidth, measure)
	content.WrappedForPx = sizePx
	return content.WrappedLines
}

// ensureStageImages 舞台尺寸变化时重建形状图像
func (s *BlessingRenderSystem) ensureStageImages(stage config.StageRect) {
	size := image.Pt(int(math.Ceil(stage.W)), int(math.Ceil(stage.H)))
	if s.stageShape != nil && size == s.stageSize {
		return
	}
	for _, img := range []*ebiten.Image{s.stageShape, s.stageRing, s.itemsLayer} {
		if img != nil {
			img.Deallocate()
		}
	}

	w, h := float32(size.X), float32(size.Y)
	radius := float32(config.StageCornerRadius)
	border := float32(config.StageBorderWidth)

	s.stageShape = ebiten.NewImage(size.X, size.Y)
	fillRoundedRect(s.stageShape, 0, 0, w, h, radius, color.White)

	s.stageRing = ebiten.NewImage(size.X, size.Y)
	fillRoundedRect(s.stageRing, 0, 0, w, h, radius, color.White)
	inner := ebiten.NewImage(size.X, size.Y)
	fillRoundedRect(inner, border, border, w-border*2, h-border*2, radius-border, color.White)
	cut := &ebiten.DrawImageOptions{}
	cut.Blend = ebiten.BlendDestinationOut
	s.stageRing.DrawImage(inner, cut)
	inner.Deallocate()

	s.itemsLayer = ebiten.NewImage(size.X, size.Y)
	s.stageSize = size
}

// fillRoundedRect 用两个矩形和四个圆绘制不透明圆角矩形
func fillRoundedRect(dst *ebiten.Image, x, y, w, h, r float32, clr color.Color) {
	if r*2 > w {
		r = w / 2
	}
	if r*2 > h {
		r = h / 2
	}
	if r < 0 {
		r = 0
	}
	vector.DrawFilledRect(dst, x+r, y, w-r*2, h, clr, true)
	vector.DrawFilledRect(dst, x, y+r, w, h-r*2, clr, true)
	vector.DrawFilledCircle(dst, x+r, y+r, r, clr, true)
	vector.DrawFilledCircle(dst, x+w-r, y+r, r, clr, true)
	vector.DrawFilledCircle(dst, x+r, y+h-r, r, clr, true)
	vector.DrawFilledCircle(dst, x+w-r, y+h-r, r, clr, true)
}

// drawBackdrop 绘制径向渐变背景，屏幕尺寸变化时重建
func (s *BlessingRenderSystem) drawBackdrop(screen *ebiten.Image) {
	size := screen.Bounds().Size()
	if s.backdrop == nil || size != s.backdropSize {
		if s.backdrop != nil {
			s.backdrop.Deallocate()
		}
		s.backdrop = ebiten.NewImageFromImage(RadialBackdrop(size.X, size.Y))
		s.backdropSize = size
	}
	screen.DrawImage(s.backdrop, nil)
}

// RadialBackdrop 生成 radial-gradient(circle at center, inner 20%, outer 80%) 图像
func RadialBackdrop(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	inner, err := colorful.Hex(config.BackdropInnerHex)
	if err != nil {
		inner = colorful.Color{}
	}
	outer, err := colorful.Hex(config.BackdropOuterHex)
	if err != nil {
		outer = colorful.Color{}
	}

	cx, cy := float64(w)/2, float64(h)/2
	// circle 渐变默认延伸到最远角
	maxR := math.Hypot(cx, cy)
	if maxR == 0 {
		return img
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / maxR
			t := utils.Clamp01((d - config.BackdropInnerStop) / (config.BackdropOuterStop - config.BackdropInnerStop))
			r, g, b := inner.BlendRgb(outer, t).RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}
