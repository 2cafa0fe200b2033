//go:build !mobile

// stub.go - 桌面构建时的占位文件
//
// 桌面端入口是根目录的 main.go；移动端绑定在 mobile.go 中，
// 仅在使用 -tags mobile 时编译。保留此文件使 ./... 在桌面构建时不报空包。
package mobile

// Dummy 与移动端构建导出相同的符号
func Dummy() {}
