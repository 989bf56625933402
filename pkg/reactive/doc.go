// Package reactive 提供响应式流相关的子包。
//
// 子包列表：
//   - xrx: Single/Maybe/Flowable/Completable 四种生产者、具名 Worker 与生命周期钩子
package reactive
