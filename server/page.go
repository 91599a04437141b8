package server

import "net/http"

const filesPage = `<!doctype html><html><head><meta charset="utf-8"/>
<meta name="viewport" content="width=device-width,initial-scale=1"/>
<title>SD Browser</title>
<style>
body{font-family:sans-serif;padding:12px}
a{display:block;padding:6px 0;text-decoration:none}
button{margin:4px;padding:8px}
img{image-rendering:pixelated;width:320px;border:1px solid #888}
</style></head><body>
<h3>SD Browser</h3>
<p><img id="screen" src="/screen.png"/></p>
<div><button onclick="openDir('/')">/</button>
<button onclick="fetch('/clear').then(refresh)">Clear</button></div>
<p id="cur"></p>
<div id="list"></div>
<script>
var cur='/';
function esc(s){return String(s).replace(/&/g,'&amp;').replace(/</g,'&lt;').replace(/>/g,'&gt;').replace(/"/g,'&quot;').replace(/'/g,'&#39;');}
function refresh(){document.getElementById('screen').src='/screen.png?'+Date.now();}
function show(f){fetch('/api/show?file='+encodeURIComponent(f)).then(refresh);}
function openDir(d){
  cur=d;
  document.getElementById('cur').textContent='Dir: '+d;
  fetch('/api/list?dir='+encodeURIComponent(d)).then(function(r){return r.json();}).then(function(arr){
    var out='';
    if(d!='/'){
      var p=d.replace(/\/+$/,'');
      var up=p.substring(0,p.lastIndexOf('/'));
      if(up==='') up='/';
      out+='<a href="#" data-dir="'+esc(up)+'">&#11013; ..</a>';
    }
    for(var i=0;i<arr.length;i++){
      var x=arr[i];
      if(x.dir){
        out+='<a href="#" data-dir="'+esc(x.name)+'">&#128193; '+esc(x.name)+'</a>';
      }else{
        out+='<a target="_blank" href="/sd?path='+encodeURIComponent(x.name)+'">&#128196; '+esc(x.name)+'</a>';
        out+=' <button data-show="'+esc(x.name)+'">SHOW</button><br/>';
      }
    }
    document.getElementById('list').innerHTML=out;
  });
}
document.getElementById('list').addEventListener('click',function(e){
  var t=e.target;
  if(t.dataset.dir){e.preventDefault();openDir(t.dataset.dir);}
  if(t.dataset.show){show(t.dataset.show);}
});
openDir(cur);
</script></body></html>
`

func (s *Server) handleFilesPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(filesPage))
}
