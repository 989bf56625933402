// Package xconf 加载 YAML/JSON 配置文件，基于 koanf 实现。
//
// 负责文件或字节数据的加载、反序列化、重载与文件监视；默认值与校验由调用方负责
// （见 xrxlog.Config.Validate）。
//
// # 支持的格式
//
//   - YAML：.yaml, .yml
//   - JSON：.json
//
// # 并发
//
// Reload 通过互斥锁串行化，解析成功后以 atomic.Pointer 替换 koanf 实例；
// 解析失败时保留旧配置。Client 返回的是调用时刻的快照。
//
// # 热重载
//
//	cfg, _ := xconf.New("rxtrace.yaml")
//	w, _ := xconf.Watch(cfg, func(c xconf.Config, err error) {
//		var tc xrxlog.Config
//		if err == nil {
//			err = c.Unmarshal("", &tc)
//		}
//		...
//	})
//	w.StartAsync()
//	defer w.Stop()
//
// Watch 监视文件所在目录，以便覆盖编辑器"写临时文件再 rename"的保存方式。
package xconf
