package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// Module 由各业务 handler 实现：public 无需登录，private 已挂 JWT 中间件
type Module interface {
	Mount(public, private *gin.RouterGroup)
}

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

type Registry struct {
	mods []Module
}

func (r *Registry) Register(mods ...Module) {
	r.mods = append(r.mods, mods...)
}

// MountAll mounts every registered module in priority order.
func (r *Registry) MountAll(public, private *gin.RouterGroup) {
	mods := append([]Module(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(public, private)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
