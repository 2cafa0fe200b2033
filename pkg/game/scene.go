package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a screen of the application (e.g. the blessing wave).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Mountable 是一个可选接口，场景在被激活和被替换时收到通知
//
// SceneManager.SwitchTo 会先调用旧场景的 OnExit，再调用新场景的 OnEnter。
// OnExit 之后场景不得再修改任何状态（计时器、加载结果都要丢弃）。
type Mountable interface {
	OnEnter()
	OnExit()
}
